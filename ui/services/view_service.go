package services

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"chartdesk/domain/dataset"
	"chartdesk/internal"
	"chartdesk/internal/charting"
	filtering "chartdesk/internal/dataset"
	"chartdesk/internal/i18n"
	"chartdesk/internal/profiling"
	"chartdesk/internal/session"
)

// FilterValuePrefix prefixes the query parameter holding a column's allowed values
const FilterValuePrefix = "v."

// ViewQuery is the user's current selection, read from the query string
type ViewQuery struct {
	Lang          string
	FilterColumns []string
	FilterValues  map[string][]string
	Chart         charting.ChartRequest
}

// ParseViewQuery reads lang, cols, v.<column>, kind, x and y
func ParseViewQuery(values url.Values) ViewQuery {
	q := ViewQuery{
		Lang:         values.Get("lang"),
		FilterValues: make(map[string][]string),
		Chart: charting.ChartRequest{
			Kind: values.Get("kind"),
			X:    values.Get("x"),
			Y:    values.Get("y"),
		},
	}
	seen := make(map[string]bool)
	for _, col := range values["cols"] {
		if col == "" || seen[col] {
			continue
		}
		seen[col] = true
		q.FilterColumns = append(q.FilterColumns, col)
	}
	for key, vals := range values {
		if !strings.HasPrefix(key, FilterValuePrefix) {
			continue
		}
		col := strings.TrimPrefix(key, FilterValuePrefix)
		for _, v := range vals {
			if v != "" {
				q.FilterValues[col] = append(q.FilterValues[col], v)
			}
		}
	}
	return q
}

// Clauses builds one clause per chosen filter column, in the order chosen
func (q ViewQuery) Clauses() []filtering.Clause {
	clauses := make([]filtering.Clause, 0, len(q.FilterColumns))
	for _, col := range q.FilterColumns {
		clauses = append(clauses, filtering.Clause{Column: col, Values: q.FilterValues[col]})
	}
	return clauses
}

// ColumnInfo names a column and its kind
type ColumnInfo struct {
	Name string       `json:"name"`
	Kind dataset.Kind `json:"kind"`
}

// FilterOption is one pickable value of a filter column
type FilterOption struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// FilterView is the state of one column in the filter section
type FilterView struct {
	Column  string         `json:"column"`
	Label   string         `json:"label"`
	Active  bool           `json:"active"`
	Options []FilterOption `json:"options,omitempty"`
}

// ChartView is a chart ready for the browser
type ChartView struct {
	ID      string             `json:"id"`
	Spec    charting.ChartSpec `json:"spec"`
	Option  json.RawMessage    `json:"option"`
	Warning string             `json:"warning,omitempty"`
}

// OptionJSON returns the ECharts option as a string for the page
func (c ChartView) OptionJSON() string {
	return string(c.Option)
}

// CustomView is the chart builder state
type CustomView struct {
	Kinds    []string              `json:"kinds"`
	XOptions []string              `json:"x_options"`
	YOptions []string              `json:"y_options"`
	Request  charting.ChartRequest `json:"request"`
	Chart    *ChartView            `json:"chart,omitempty"`
	Warning  string                `json:"warning,omitempty"`
}

// View is everything one render pass shows
type View struct {
	Lang     string      `json:"lang"`
	Dir      string      `json:"dir"`
	Texts    *i18n.Texts `json:"-"`
	Langs    []LangLink  `json:"-"`
	Loaded   bool        `json:"loaded"`
	FileName string      `json:"file_name,omitempty"`
	Error    string      `json:"error,omitempty"`

	BaseRowCount int                       `json:"base_row_count"`
	RowCount     int                       `json:"row_count"`
	ColumnCount  int                       `json:"column_count"`
	Columns      []ColumnInfo              `json:"columns,omitempty"`
	Preview      [][]string                `json:"preview,omitempty"`
	Summary      profiling.Summary         `json:"summary"`
	Missing      []profiling.NamedCount    `json:"missing,omitempty"`
	Unique       []profiling.NamedCount    `json:"unique,omitempty"`
	Filters      []FilterView              `json:"filters,omitempty"`
	Clauses      []filtering.Clause        `json:"clauses,omitempty"`
	Suggestions  []ChartView               `json:"suggestions,omitempty"`
	FallbackNote string                    `json:"fallback_note,omitempty"`
	Custom       *CustomView               `json:"custom,omitempty"`
	Profiles     []profiling.ColumnProfile `json:"profiles,omitempty"`
}

// LangLink is an entry of the language selector
type LangLink struct {
	Code    string
	Name    string
	Current bool
}

// ViewConfig holds the view service settings
type ViewConfig struct {
	PreviewRows int
	Planner     charting.PlannerConfig
}

// blankOption draws an empty chart area
const blankOption = `{"series":[]}`

// optionGenerator turns a chart spec and its view into an ECharts option
type optionGenerator interface {
	Generate(spec charting.ChartSpec, view *dataset.Table) charting.Option
}

// ViewService runs the render pass: filter the base table, summarize the
// view, plan suggestions and validate the custom chart
type ViewService struct {
	config    ViewConfig
	catalog   *i18n.Catalog
	planner   *charting.Planner
	generator optionGenerator
	logger    *internal.Logger
}

// NewViewService creates a view service
func NewViewService(config ViewConfig, catalog *i18n.Catalog, logger *internal.Logger) *ViewService {
	if config.PreviewRows <= 0 {
		config.PreviewRows = 10
	}
	return &ViewService{
		config:    config,
		catalog:   catalog,
		planner:   charting.NewPlanner(config.Planner),
		generator: charting.NewEChartsGenerator(nil),
		logger:    logger,
	}
}

// Build computes the view of sess for query q. It never mutates the session.
func (s *ViewService) Build(sess session.Session, q ViewQuery) (*View, error) {
	texts := s.catalog.Texts(sess.Lang)
	v := &View{
		Lang:     texts.Lang,
		Dir:      texts.Dir,
		Texts:    texts,
		FileName: sess.FileName,
	}
	if sess.Error != "" {
		v.Error = i18n.Format(texts.ParseError, map[string]string{"error": sess.Error})
	}
	for _, code := range s.catalog.Langs() {
		v.Langs = append(v.Langs, LangLink{Code: code, Name: s.catalog.Texts(code).Name, Current: code == texts.Lang})
	}
	if !sess.HasTable() {
		return v, nil
	}

	base := sess.Table
	v.Loaded = true
	v.BaseRowCount = base.RowCount()
	for _, col := range base.Columns() {
		v.Columns = append(v.Columns, ColumnInfo{Name: col.Name, Kind: col.Kind})
	}

	clauses := s.knownClauses(base, q.Clauses())
	view, err := filtering.ApplyFilters(base, clauses)
	if err != nil {
		return nil, err
	}
	v.Clauses = clauses
	v.Filters = s.filterViews(base, texts, clauses)

	v.RowCount = view.RowCount()
	v.ColumnCount = view.ColumnCount()
	v.Preview = previewRows(view, s.config.PreviewRows)
	v.Summary = profiling.Describe(view)
	v.Missing = profiling.MissingCounts(view)
	v.Unique = profiling.DistinctCounts(view)

	profiles := profiling.Profile(base)
	v.Profiles = profiles

	suggestions := s.planner.Suggest(profiles)
	for _, spec := range suggestions {
		if spec.Fallback && v.FallbackNote == "" {
			v.FallbackNote = texts.FallbackNoteFor(s.config.Planner.CategoryLimit)
		}
		if s.planner.UnguardedPie(spec, profiles) {
			x, _ := profiling.Lookup(profiles, spec.X)
			s.logger.WithFields(map[string]interface{}{
				"column":   spec.X,
				"distinct": x.Distinct,
				"limit":    s.config.Planner.PieLimit,
			}).Warn("fallback pie chart drawn over the category limit")
		}
		v.Suggestions = append(v.Suggestions, s.chartView(spec, view, texts))
	}

	custom, err := s.customView(q.Chart, base, view, profiles, texts)
	if err != nil {
		return nil, err
	}
	v.Custom = custom
	return v, nil
}

// knownClauses drops clauses for columns the table does not have; links from
// a previously uploaded file may still carry them
func (s *ViewService) knownClauses(t *dataset.Table, clauses []filtering.Clause) []filtering.Clause {
	out := make([]filtering.Clause, 0, len(clauses))
	for _, clause := range clauses {
		if _, ok := t.Column(clause.Column); !ok {
			s.logger.Debug("ignoring filter on unknown column %q", clause.Column)
			continue
		}
		out = append(out, clause)
	}
	return out
}

// filterViews lists every column; chosen ones carry their options. Options
// come from the base table so a selection never hides its siblings.
func (s *ViewService) filterViews(base *dataset.Table, texts *i18n.Texts, clauses []filtering.Clause) []FilterView {
	chosen := make(map[string]filtering.Clause, len(clauses))
	for _, c := range clauses {
		chosen[c.Column] = c
	}

	views := make([]FilterView, 0, base.ColumnCount())
	for _, name := range base.ColumnNames() {
		fv := FilterView{Column: name}
		clause, ok := chosen[name]
		if ok {
			fv.Active = true
			fv.Label = texts.FilterValuesFor(name)
			selected := make(map[string]bool, len(clause.Values))
			for _, v := range clause.Values {
				selected[v] = true
			}
			options, _ := filtering.FilterOptions(base, name)
			for _, opt := range options {
				fv.Options = append(fv.Options, FilterOption{Value: opt, Selected: selected[opt]})
			}
		}
		views = append(views, fv)
	}
	return views
}

func (s *ViewService) customView(req charting.ChartRequest, base, view *dataset.Table, profiles []profiling.ColumnProfile, texts *i18n.Texts) (*CustomView, error) {
	custom := &CustomView{
		XOptions: base.ColumnNames(),
		YOptions: profiling.NumericNames(profiles),
	}
	for _, k := range charting.Kinds {
		custom.Kinds = append(custom.Kinds, string(k))
	}

	if req.Kind == "" {
		req.Kind = string(charting.KindBar)
	}
	if _, ok := base.Column(req.X); !ok && len(custom.XOptions) > 0 {
		req.X = custom.XOptions[0]
	}
	if !contains(custom.YOptions, req.Y) {
		req.Y = ""
		if len(custom.YOptions) > 0 {
			req.Y = custom.YOptions[0]
		}
	}
	custom.Request = req
	if req.Y == "" {
		return custom, nil
	}

	validator := charting.NewValidator(s.config.Planner.PieLimit, texts.ByTemplate)
	spec, err := validator.Validate(req, profiles)
	if err != nil {
		var rejection *charting.Rejection
		if !errors.As(err, &rejection) {
			return nil, err
		}
		custom.Warning = rejection.Error()
		if rejection.Reason == charting.ReasonTooManyCategories {
			custom.Warning = texts.PieWarningFor(rejection.Limit)
		}
		return custom, nil
	}

	chart := s.chartView(spec, view, texts)
	chart.ID = "custom_" + strings.ToLower(string(spec.Kind))
	custom.Chart = &chart
	return custom, nil
}

// chartView encodes one chart. A chart that cannot be encoded is shown blank
// with a warning; the rest of the page still renders.
func (s *ViewService) chartView(spec charting.ChartSpec, view *dataset.Table, texts *i18n.Texts) ChartView {
	chart := ChartView{ID: spec.ID(), Spec: spec}
	encoded, err := s.generator.Generate(spec, view).JSON()
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"chart": chart.ID,
			"rows":  view.RowCount(),
		}).Warn("chart option could not be encoded: %v", err)
		chart.Option = json.RawMessage(blankOption)
		chart.Warning = i18n.Format(texts.ChartError, map[string]string{"title": spec.Title})
		return chart
	}
	chart.Option = json.RawMessage(encoded)
	return chart
}

func previewRows(t *dataset.Table, n int) [][]string {
	head := t.Head(n)
	rows := make([][]string, len(head))
	for i, cells := range head {
		row := make([]string, len(cells))
		for j, cell := range cells {
			if !cell.Missing {
				row[j] = cell.Raw
			}
		}
		rows[i] = row
	}
	return rows
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
