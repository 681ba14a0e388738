// Package rules evaluates promo eligibility expressions written in CEL.
//
// An expression sees these variables:
//
//	order_amount     double     amount the discount is computed on
//	delivery_fee     double
//	customer_id      string
//	restaurant_id    string     empty when the order names no restaurant
//	category_ids     list(string)
//	customer_usages  int        earlier uses of the code by the customer
//	now              timestamp
//
// Example: order_amount >= 25.0 && now.getDayOfWeek("Asia/Almaty") in [0, 6]
package rules

import (
	"context"
	"fmt"
	"sync"

	"marketplace/internal/core/domain/model/promo"

	"github.com/google/cel-go/cel"
)

// CELEvaluator compiles each distinct expression once and caches the program.
type CELEvaluator struct {
	env      *cel.Env
	lock     sync.RWMutex
	programs map[string]cel.Program
}

func NewCELEvaluator() (*CELEvaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("order_amount", cel.DoubleType),
		cel.Variable("delivery_fee", cel.DoubleType),
		cel.Variable("customer_id", cel.StringType),
		cel.Variable("restaurant_id", cel.StringType),
		cel.Variable("category_ids", cel.ListType(cel.StringType)),
		cel.Variable("customer_usages", cel.IntType),
		cel.Variable("now", cel.TimestampType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build rule environment: %w", err)
	}
	return &CELEvaluator{env: env, programs: make(map[string]cel.Program)}, nil
}

// Compile checks that rule parses and yields a bool.
func (e *CELEvaluator) Compile(rule string) error {
	_, err := e.program(rule)
	return err
}

func (e *CELEvaluator) Evaluate(ctx context.Context, rule string, req promo.Request) (bool, error) {
	prg, err := e.program(rule)
	if err != nil {
		return false, err
	}

	restaurantID := ""
	if req.RestaurantID != nil {
		restaurantID = req.RestaurantID.String()
	}
	categories := make([]string, 0, len(req.CategoryIDs))
	for _, id := range req.CategoryIDs {
		categories = append(categories, id.String())
	}

	out, _, err := prg.ContextEval(ctx, map[string]any{
		"order_amount":    req.OrderAmount.Decimal().InexactFloat64(),
		"delivery_fee":    req.DeliveryFee.Decimal().InexactFloat64(),
		"customer_id":     req.CustomerID.String(),
		"restaurant_id":   restaurantID,
		"category_ids":    categories,
		"customer_usages": req.CustomerUsages,
		"now":             req.Now,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate rule %q: %w", rule, err)
	}

	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("rule %q evaluated to %v, not a bool", rule, out.Value())
	}
	return ok, nil
}

func (e *CELEvaluator) program(rule string) (cel.Program, error) {
	e.lock.RLock()
	prg, ok := e.programs[rule]
	e.lock.RUnlock()
	if ok {
		return prg, nil
	}

	ast, iss := e.env.Compile(rule)
	if iss.Err() != nil {
		return nil, fmt.Errorf("invalid rule %q: %w", rule, iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("rule %q yields %s, not bool", rule, ast.OutputType())
	}
	prg, err := e.env.Program(ast, cel.InterruptCheckFrequency(100))
	if err != nil {
		return nil, fmt.Errorf("invalid rule %q: %w", rule, err)
	}

	e.lock.Lock()
	e.programs[rule] = prg
	e.lock.Unlock()
	return prg, nil
}
