// Package loyaltyrepo persists loyalty programs and their append-only points ledger.
package loyaltyrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/loyalty"

	"github.com/google/uuid"
)

type ProgramDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Points               int64     `gorm:"not null;default:0;check:points >= 0"`
	TotalPointsEarned    int64     `gorm:"not null;default:0"`
	TotalPointsRedeemed  int64     `gorm:"not null;default:0"`
	Tier                 string    `gorm:"type:varchar(16);not null"`
	LastPointsEarnedAt   *time.Time
	LastPointsRedeemedAt *time.Time
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

func (ProgramDTO) TableName() string {
	return "loyalty_programs"
}

type TransactionDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProgramID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID     *uuid.UUID `gorm:"type:uuid"`
	Type        string     `gorm:"type:varchar(16);not null"`
	Points      int64      `gorm:"not null"`
	Description string     `gorm:"type:text"`
	ExpiresAt   *time.Time `gorm:"index"`
	Processed   bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time  `gorm:"not null;index"`
}

func (TransactionDTO) TableName() string {
	return "loyalty_transactions"
}

func fromDomain(p *loyalty.Program) ProgramDTO {
	return ProgramDTO{
		ID:                   p.ID().Bytes(),
		CustomerID:           p.CustomerID().Bytes(),
		Points:               p.Points(),
		TotalPointsEarned:    p.TotalPointsEarned(),
		TotalPointsRedeemed:  p.TotalPointsRedeemed(),
		Tier:                 p.Tier().String(),
		LastPointsEarnedAt:   p.LastPointsEarnedAt(),
		LastPointsRedeemedAt: p.LastPointsRedeemedAt(),
		CreatedAt:            p.CreatedAt(),
		UpdatedAt:            p.UpdatedAt(),
	}
}

func toDomain(dto ProgramDTO) (*loyalty.Program, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	tier, err := loyalty.ParseTier(dto.Tier)
	if err != nil {
		return nil, err
	}
	return loyalty.RestoreProgram(loyalty.Snapshot{
		ID:                   id,
		CustomerID:           customerID,
		Points:               dto.Points,
		TotalPointsEarned:    dto.TotalPointsEarned,
		TotalPointsRedeemed:  dto.TotalPointsRedeemed,
		Tier:                 tier,
		LastPointsEarnedAt:   dto.LastPointsEarnedAt,
		LastPointsRedeemedAt: dto.LastPointsRedeemedAt,
		CreatedAt:            dto.CreatedAt,
		UpdatedAt:            dto.UpdatedAt,
	})
}

func transactionFromDomain(t loyalty.Transaction) TransactionDTO {
	var orderID *uuid.UUID
	if t.OrderID != nil {
		raw := t.OrderID.Bytes()
		orderID = &raw
	}
	return TransactionDTO{
		ID:          t.ID.Bytes(),
		ProgramID:   t.ProgramID.Bytes(),
		OrderID:     orderID,
		Type:        t.Type.String(),
		Points:      t.Points,
		Description: t.Description,
		ExpiresAt:   t.ExpiresAt,
		Processed:   t.Processed,
		CreatedAt:   t.CreatedAt,
	}
}

func transactionToDomain(dto TransactionDTO) (loyalty.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return loyalty.Transaction{}, err
	}
	programID, err := kernel.UUIDFromBytes(dto.ProgramID[:])
	if err != nil {
		return loyalty.Transaction{}, err
	}
	orderID, err := kernel.UUIDPtrFromBytes(dto.OrderID)
	if err != nil {
		return loyalty.Transaction{}, err
	}
	txType, err := loyalty.ParseTransactionType(dto.Type)
	if err != nil {
		return loyalty.Transaction{}, err
	}
	return loyalty.Transaction{
		ID:          id,
		ProgramID:   programID,
		OrderID:     orderID,
		Type:        txType,
		Points:      dto.Points,
		Description: dto.Description,
		ExpiresAt:   dto.ExpiresAt,
		Processed:   dto.Processed,
		CreatedAt:   dto.CreatedAt,
	}, nil
}
