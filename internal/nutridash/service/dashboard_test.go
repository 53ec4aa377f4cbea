package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/stretchr/testify/require"
)

func addWidget(t *testing.T, f *fixture, userID, typ string, row, col int, cfg string) domain.Widget {
	t.Helper()
	w, err := f.dash.AddWidget(context.Background(), userID, AddWidgetRequest{
		Type: typ, Row: row, Column: col, Configuration: json.RawMessage(cfg),
	})
	require.NoError(t, err)
	return w
}

func TestGetDashboardCreatesOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "a@example.com", password)

	d1, err := f.dash.GetDashboard(ctx, u.ID)
	require.NoError(t, err)
	require.Zero(t, d1.WidgetCount())

	d2, err := f.dash.GetDashboard(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, d1.ID, d2.ID)
}

func TestDashboardWidgetLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "a@example.com", password)

	search := addWidget(t, f, u.ID, "product_search", 1, 1, `{"barcode":"3017620422003"}`)
	cmp := addWidget(t, f, u.ID, "nutriscore_comparison", 1, 2, `{"barcodes":["1","2"]}`)

	_, err := f.dash.AddWidget(ctx, u.ID, AddWidgetRequest{Type: "product_search", Row: 1, Column: 1, Configuration: json.RawMessage(`{"barcode":"1"}`)})
	require.ErrorIs(t, err, domain.ErrPositionOccupied)

	_, err = f.dash.AddWidget(ctx, u.ID, AddWidgetRequest{Type: "pie_chart", Row: 3, Column: 1})
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	moved, err := f.dash.MoveWidget(ctx, u.ID, search.ID, 2, 1)
	require.NoError(t, err)
	require.Equal(t, domain.WidgetPosition{Row: 2, Column: 1}, moved.Position)

	_, err = f.dash.MoveWidget(ctx, u.ID, search.ID, 1, 2)
	require.ErrorIs(t, err, domain.ErrPositionOccupied)

	updated, err := f.dash.UpdateWidgetConfiguration(ctx, u.ID, cmp.ID, json.RawMessage(`{"barcodes":["7","8","9"]}`))
	require.NoError(t, err)
	require.Equal(t, []string{"7", "8", "9"}, updated.Config.Barcodes())

	_, err = f.dash.UpdateWidgetConfiguration(ctx, u.ID, cmp.ID, json.RawMessage(`{"barcode":"1"}`))
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	require.NoError(t, f.dash.RemoveWidget(ctx, u.ID, search.ID))
	require.ErrorIs(t, f.dash.RemoveWidget(ctx, u.ID, search.ID), domain.ErrWidgetNotFound)

	d, err := f.dash.GetDashboard(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, d.WidgetCount())
	got, err := d.Widget(cmp.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"7", "8", "9"}, got.Config.Barcodes())
}

func TestDashboardWidgetLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "a@example.com", password)

	for i := range DefaultMaxWidgets {
		addWidget(t, f, u.ID, "product_search", i/2+1, i%2+1, `{"barcode":"1"}`)
	}
	_, err := f.dash.AddWidget(ctx, u.ID, AddWidgetRequest{
		Type: "product_search", Row: 50, Column: 1, Configuration: json.RawMessage(`{"barcode":"1"}`),
	})
	require.ErrorIs(t, err, domain.ErrTooManyWidgets)
}

func TestShoppingList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "a@example.com", password)

	_, err := f.dash.AddShoppingListItem(ctx, u.ID, "123")
	require.ErrorIs(t, err, domain.ErrShoppingListNotFound)

	addWidget(t, f, u.ID, "shopping_list", 1, 1, ``)

	_, err = f.dash.AddWidget(ctx, u.ID, AddWidgetRequest{Type: "shopping_list", Row: 2, Column: 2})
	require.ErrorIs(t, err, domain.ErrDuplicateSingletonWidget)

	w, err := f.dash.AddShoppingListItem(ctx, u.ID, "123")
	require.NoError(t, err)
	require.Equal(t, []string{"123"}, w.Config.Barcodes())

	_, err = f.dash.AddShoppingListItem(ctx, u.ID, "123")
	require.ErrorIs(t, err, domain.ErrDuplicateBarcode)

	_, err = f.dash.AddShoppingListItem(ctx, u.ID, "12a")
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	for i := 1; i < domain.MaxShoppingListBarcodes; i++ {
		_, err = f.dash.AddShoppingListItem(ctx, u.ID, fmt.Sprintf("%d", 1000+i))
		require.NoError(t, err)
	}
	_, err = f.dash.AddShoppingListItem(ctx, u.ID, "999")
	require.ErrorIs(t, err, domain.ErrShoppingListFull)

	w, err = f.dash.RemoveShoppingListItem(ctx, u.ID, "123")
	require.NoError(t, err)
	require.Len(t, w.Config.Barcodes(), domain.MaxShoppingListBarcodes-1)
	require.NotContains(t, w.Config.Barcodes(), "123")

	before, err := f.dash.GetDashboard(ctx, u.ID)
	require.NoError(t, err)
	_, err = f.dash.RemoveShoppingListItem(ctx, u.ID, "123")
	require.NoError(t, err, "removing a missing item is a no-op")
	after, err := f.dash.GetDashboard(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, before.Version, after.Version)

	w, err = f.dash.ClearShoppingList(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, w.Config.Barcodes())
}

func TestDashboardConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "a@example.com", password)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.dash.AddWidget(ctx, u.ID, AddWidgetRequest{
				Type: "product_search", Row: i/2 + 1, Column: i%2 + 1, Configuration: json.RawMessage(`{"barcode":"1"}`),
			})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	d, err := f.dash.GetDashboard(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, len(errs), d.WidgetCount())
}
