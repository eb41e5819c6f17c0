package repositories

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fxvault.backend/pkg/utils"
)

func applyPage(query *gorm.DB, page, limit int) *gorm.DB {
	p := utils.GetPaginationParams(page, limit)
	return query.Limit(p.Limit).Offset(p.CalculateOffset())
}

// sumColumn runs COALESCE(SUM(column), 0) over query. The column name is a constant
// supplied by the caller, never user input.
func sumColumn(query *gorm.DB, column string) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := query.Select("COALESCE(SUM(" + column + "), 0)").Row().Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
