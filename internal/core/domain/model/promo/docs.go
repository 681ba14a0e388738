// Package promo models promo codes and the facts of their usage.
package promo
