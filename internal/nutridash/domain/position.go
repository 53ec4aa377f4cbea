package domain

import "fmt"

// GridColumns is the fixed width of every dashboard grid.
const GridColumns = 2

// WidgetPosition is a cell on the dashboard grid. Rows start at 1 and are
// unbounded, columns are 1 or 2.
type WidgetPosition struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// NewWidgetPosition validates and builds a grid position.
func NewWidgetPosition(row, column int) (WidgetPosition, error) {
	if column < 1 || column > GridColumns {
		return WidgetPosition{}, fmt.Errorf("%w: column must be between 1 and %d, got %d",
			ErrInvalidPosition, GridColumns, column)
	}
	if row < 1 {
		return WidgetPosition{}, fmt.Errorf("%w: row must be at least 1, got %d", ErrInvalidPosition, row)
	}
	return WidgetPosition{Row: row, Column: column}, nil
}

func (p WidgetPosition) Equals(other WidgetPosition) bool {
	return p.Row == other.Row && p.Column == other.Column
}

func (p WidgetPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Column)
}
