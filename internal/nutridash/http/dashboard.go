package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/service"
	"github.com/aussiebroadwan/nutridash/pkg/dashsdk"
	"github.com/aussiebroadwan/nutridash/pkg/httpx"
	"github.com/aussiebroadwan/nutridash/pkg/idx"
)

// DashboardHandler serves the authenticated user's own dashboard.
type DashboardHandler struct {
	DashboardService *service.DashboardService
}

// HandleGet handles GET /v1/dashboard
//
//	@Summary		Get the dashboard
//	@Description	Returns the caller's dashboard, creating an empty one on first access. Widgets are ordered by row, then column.
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dashsdk.DashboardResponse
//	@Failure		401	{object}	dashsdk.ErrorResponse
//	@Router			/v1/dashboard [get].
func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.DashboardService.GetDashboard(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp, err := toDashboardResponse(d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAddWidget handles POST /v1/dashboard/widgets
//
//	@Summary		Add a widget
//	@Description	Places a widget on the 2 column grid. A dashboard holds at most 10 widgets and one shopping list.
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dashsdk.AddWidgetRequest	true	"Widget"
//	@Success		201		{object}	dashsdk.WidgetResponse
//	@Failure		400		{object}	dashsdk.ErrorResponse	"invalid_position, invalid_configuration"
//	@Failure		409		{object}	dashsdk.ErrorResponse	"position_occupied, duplicate_singleton_widget"
//	@Failure		422		{object}	dashsdk.ErrorResponse	"too_many_widgets"
//	@Router			/v1/dashboard/widgets [post].
func (h *DashboardHandler) HandleAddWidget(w http.ResponseWriter, r *http.Request) {
	var req dashsdk.AddWidgetRequest
	if e := httpx.DecodeJSON(w, r, &req); e != nil {
		httpx.WriteError(w, e)
		return
	}

	widget, err := h.DashboardService.AddWidget(r.Context(), httpx.UserIDFromContext(r.Context()), service.AddWidgetRequest{
		Type:          req.Type,
		Row:           req.Row,
		Column:        req.Column,
		Configuration: req.Configuration,
	})
	h.writeWidget(w, r, http.StatusCreated, widget, err)
}

// HandleMoveWidget handles POST /v1/dashboard/widgets/{id}/move
//
//	@Summary		Move a widget
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Widget ID"
//	@Param			request	body		dashsdk.MoveWidgetRequest	true	"Target cell"
//	@Success		200		{object}	dashsdk.WidgetResponse
//	@Failure		400		{object}	dashsdk.ErrorResponse	"invalid_position"
//	@Failure		404		{object}	dashsdk.ErrorResponse	"widget_not_found"
//	@Failure		409		{object}	dashsdk.ErrorResponse	"position_occupied"
//	@Router			/v1/dashboard/widgets/{id}/move [post].
func (h *DashboardHandler) HandleMoveWidget(w http.ResponseWriter, r *http.Request) {
	id, ok := widgetID(w, r)
	if !ok {
		return
	}
	var req dashsdk.MoveWidgetRequest
	if e := httpx.DecodeJSON(w, r, &req); e != nil {
		httpx.WriteError(w, e)
		return
	}

	widget, err := h.DashboardService.MoveWidget(r.Context(), httpx.UserIDFromContext(r.Context()), id, req.Row, req.Column)
	h.writeWidget(w, r, http.StatusOK, widget, err)
}

// HandleUpdateConfiguration handles PUT /v1/dashboard/widgets/{id}/configuration
//
//	@Summary		Replace a widget's configuration
//	@Description	The body is the configuration document of the widget's type, e.g. {"barcode":"3017620422003"} or {"barcodes":["1","2"]}.
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string	true	"Widget ID"
//	@Param			request	body		object	true	"Configuration"
//	@Success		200		{object}	dashsdk.WidgetResponse
//	@Failure		400		{object}	dashsdk.ErrorResponse	"invalid_configuration"
//	@Failure		404		{object}	dashsdk.ErrorResponse	"widget_not_found"
//	@Router			/v1/dashboard/widgets/{id}/configuration [put].
func (h *DashboardHandler) HandleUpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	id, ok := widgetID(w, r)
	if !ok {
		return
	}
	var raw json.RawMessage
	if e := httpx.DecodeJSON(w, r, &raw); e != nil {
		httpx.WriteError(w, e)
		return
	}

	widget, err := h.DashboardService.UpdateWidgetConfiguration(r.Context(), httpx.UserIDFromContext(r.Context()), id, raw)
	h.writeWidget(w, r, http.StatusOK, widget, err)
}

// HandleRemoveWidget handles DELETE /v1/dashboard/widgets/{id}
//
//	@Summary	Remove a widget
//	@Tags		Dashboard
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Widget ID"
//	@Success	204
//	@Failure	404	{object}	dashsdk.ErrorResponse	"widget_not_found"
//	@Router		/v1/dashboard/widgets/{id} [delete].
func (h *DashboardHandler) HandleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	id, ok := widgetID(w, r)
	if !ok {
		return
	}
	if err := h.DashboardService.RemoveWidget(r.Context(), httpx.UserIDFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddShoppingItem handles POST /v1/dashboard/shopping-list/items/{barcode}
//
//	@Summary	Add a product to the shopping list
//	@Tags		Shopping list
//	@Security	BearerAuth
//	@Produce	json
//	@Param		barcode	path		string	true	"Product barcode (1 to 14 digits)"
//	@Success	200		{object}	dashsdk.WidgetResponse
//	@Failure	400		{object}	dashsdk.ErrorResponse	"invalid_configuration"
//	@Failure	404		{object}	dashsdk.ErrorResponse	"shopping_list_not_found"
//	@Failure	409		{object}	dashsdk.ErrorResponse	"shopping_list_full, duplicate_barcode"
//	@Router		/v1/dashboard/shopping-list/items/{barcode} [post].
func (h *DashboardHandler) HandleAddShoppingItem(w http.ResponseWriter, r *http.Request) {
	widget, err := h.DashboardService.AddShoppingListItem(r.Context(), httpx.UserIDFromContext(r.Context()), r.PathValue("barcode"))
	h.writeWidget(w, r, http.StatusOK, widget, err)
}

// HandleRemoveShoppingItem handles DELETE /v1/dashboard/shopping-list/items/{barcode}
//
//	@Summary		Remove a product from the shopping list
//	@Description	Removing a barcode that is not on the list succeeds.
//	@Tags			Shopping list
//	@Security		BearerAuth
//	@Produce		json
//	@Param			barcode	path		string	true	"Product barcode"
//	@Success		200		{object}	dashsdk.WidgetResponse
//	@Failure		404		{object}	dashsdk.ErrorResponse	"shopping_list_not_found"
//	@Router			/v1/dashboard/shopping-list/items/{barcode} [delete].
func (h *DashboardHandler) HandleRemoveShoppingItem(w http.ResponseWriter, r *http.Request) {
	widget, err := h.DashboardService.RemoveShoppingListItem(r.Context(), httpx.UserIDFromContext(r.Context()), r.PathValue("barcode"))
	h.writeWidget(w, r, http.StatusOK, widget, err)
}

// HandleClearShoppingList handles DELETE /v1/dashboard/shopping-list/items
//
//	@Summary	Empty the shopping list
//	@Tags		Shopping list
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	dashsdk.WidgetResponse
//	@Failure	404	{object}	dashsdk.ErrorResponse	"shopping_list_not_found"
//	@Router		/v1/dashboard/shopping-list/items [delete].
func (h *DashboardHandler) HandleClearShoppingList(w http.ResponseWriter, r *http.Request) {
	widget, err := h.DashboardService.ClearShoppingList(r.Context(), httpx.UserIDFromContext(r.Context()))
	h.writeWidget(w, r, http.StatusOK, widget, err)
}

func (h *DashboardHandler) writeWidget(w http.ResponseWriter, r *http.Request, status int, widget domain.Widget, err error) {
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp, err := toWidgetResponse(widget)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, status, resp)
}

// widgetID reads the {id} path value. Anything that is not a ULID cannot
// name a widget.
func widgetID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !idx.Valid(id) {
		httpx.WriteError(w, &httpx.APIError{
			StatusCode:  http.StatusNotFound,
			Code:        dashsdk.ErrorCodeWidgetNotFound,
			Description: "widget not found",
		})
		return "", false
	}
	return id, true
}
