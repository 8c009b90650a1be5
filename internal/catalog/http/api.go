package cataloghttp

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/odyssey-erp/catalogview/internal/catalog"
	"github.com/odyssey-erp/catalogview/internal/platform/httpx"
	"github.com/odyssey-erp/catalogview/internal/table"
)

const filterParamPrefix = "f."

// APIRow is a product plus its display values.
type APIRow struct {
	catalog.Product
	PriceText   string `json:"price_text"`
	RatingBadge string `json:"rating_badge,omitempty"`
}

// APISummary mirrors table.Summary with the rendered sentence.
type APISummary struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Total     int    `json:"total"`
	PageIndex int    `json:"page_index"`
	Text      string `json:"text"`
}

// APIResponse is the body of GET /api/products.
type APIResponse struct {
	Rows      []APIRow   `json:"rows"`
	Summary   APISummary `json:"summary"`
	PageCount int        `json:"page_count"`
	PageSize  int        `json:"page_size"`
	Records   int        `json:"records"`
	Loading   bool       `json:"loading"`
}

func (h *Handler) handleAPI(w http.ResponseWriter, r *http.Request) {
	params, err := parseAPIParams(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	snap := h.catalog.Snapshot()
	state := table.New(snap.Products, h.columns, h.opts)
	state.Apply(params)

	summary := state.Summary()
	rows := state.Rows()
	resp := APIResponse{
		Rows: make([]APIRow, 0, len(rows)),
		Summary: APISummary{
			Start:     summary.Start,
			End:       summary.End,
			Total:     summary.Total,
			PageIndex: summary.PageIndex,
			Text:      summary.String(),
		},
		PageCount: state.PageCount(),
		PageSize:  state.PageSize(),
		Records:   state.TotalCount(),
		Loading:   snap.Loading,
	}
	for _, p := range rows {
		resp.Rows = append(resp.Rows, APIRow{
			Product:     p,
			PriceText:   table.FormatPrice(p.Price),
			RatingBadge: string(table.RatingBadge(p.Rating)),
		})
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// parseAPIParams reads page, size, sort, dir, q and f.<column> query values.
// Out-of-range values are left for the table to clamp; unparsable numbers are
// validation errors.
func parseAPIParams(q url.Values) (table.Params, error) {
	var params table.Params
	var err error
	if params.PageIndex, err = intParam(q, "page"); err != nil {
		return table.Params{}, err
	}
	if params.PageSize, err = intParam(q, "size"); err != nil {
		return table.Params{}, err
	}
	if column := strings.TrimSpace(q.Get("sort")); column != "" {
		dir := table.SortDirection(strings.ToLower(strings.TrimSpace(q.Get("dir"))))
		switch dir {
		case table.SortNone:
			dir = table.SortAsc
		case table.SortAsc, table.SortDesc:
		default:
			return table.Params{}, fmt.Errorf("%w: dir must be asc or desc", httpx.ErrValidation)
		}
		params.Sort = table.SortSpec{Column: table.ColumnKey(column), Direction: dir}
	}
	params.Global = q.Get("q")
	for key, values := range q {
		if !strings.HasPrefix(key, filterParamPrefix) || len(values) == 0 {
			continue
		}
		if params.Filters == nil {
			params.Filters = make(map[table.ColumnKey]string)
		}
		params.Filters[table.ColumnKey(strings.TrimPrefix(key, filterParamPrefix))] = values[0]
	}
	return params, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", httpx.ErrValidation, name)
	}
	return v, nil
}
