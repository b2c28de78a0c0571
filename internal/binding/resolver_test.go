package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listbind/internal/model"
)

type otherRow struct{ id string }

func (o otherRow) Key() string                    { return o.id }
func (o otherRow) ContentEquals(r model.Row) bool { return r.Key() == o.id }

type fakeView struct {
	text string
}

type recordingRegistrar struct {
	rows    []string
	headers []string
}

func (r *recordingRegistrar) RegisterRow(template string, source Source) {
	r.rows = append(r.rows, template+"/"+source.Kind.String())
}

func (r *recordingRegistrar) RegisterHeaderFooter(template string, source Source) {
	r.headers = append(r.headers, template+"/"+source.Kind.String())
}

func TestRowTemplateFirstMatchWins(t *testing.T) {
	wide := RowFor("wide", Inline(), Fixed(3), func(v View, row *model.TextRow) {
		v.(*fakeView).text = "wide:" + row.Text
	})
	wide.Match = func(_ model.IndexPath, row model.Row) bool {
		tr, ok := row.(*model.TextRow)
		return ok && len(tr.Text) > 5
	}
	text := RowFor("text", Inline(), Fixed(1), func(v View, row *model.TextRow) {
		v.(*fakeView).text = row.Text
	})

	r := NewResolver(wide, text)

	short := model.NewTextRow("hi")
	rule, err := r.RowTemplate(model.Path(0, 0), short)
	require.NoError(t, err)
	assert.Equal(t, "text", rule.Template)

	long := model.NewTextRow("a long line")
	rule, err = r.RowTemplate(model.Path(0, 1), long)
	require.NoError(t, err)
	assert.Equal(t, "wide", rule.Template)

	v := &fakeView{}
	rule.Configure(v, long)
	assert.Equal(t, "wide:a long line", v.text)

	assert.Equal(t, 1, r.RowSize(model.Path(0, 0), short))
	assert.Equal(t, 3, r.RowSize(model.Path(0, 1), long))
}

func TestRowTemplateNoMatch(t *testing.T) {
	r := NewResolver(RowFor[*model.TextRow]("text", Inline(), AutoSize(), nil))

	_, err := r.RowTemplate(model.Path(2, 4), otherRow{id: "x"})
	require.Error(t, err)

	var nm *NoMatchingTemplateError
	require.True(t, errors.As(err, &nm))
	assert.Equal(t, "row", nm.Role)
	assert.Equal(t, model.Path(2, 4), nm.Path)
	assert.Equal(t, "x", nm.Key)
	assert.Contains(t, err.Error(), "2:4")

	assert.Equal(t, Automatic, r.RowSize(model.Path(2, 4), otherRow{id: "x"}))
}

func TestSizeResolve(t *testing.T) {
	tests := []struct {
		name string
		size Size
		want int
	}{
		{"zero value", Size{}, Automatic},
		{"auto", AutoSize(), Automatic},
		{"fixed", Fixed(4), 4},
		{"custom", Custom(func(p model.IndexPath, _ any) int { return p.Row + 10 }), 12},
		{"custom without func", Size{Kind: SizeCustom}, Automatic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.size.Resolve(model.Path(0, 2), nil))
		})
	}
}

func TestHeaderAndFooterRulesAreIndependent(t *testing.T) {
	r := NewResolver()
	r.SetHeaders(HeaderFooterFor[*model.TitleHeaderFooter]("title-header", Inline(), Fixed(1), nil))
	r.SetFooters(HeaderFooterFor[*model.SpacerHeaderFooter]("spacer-footer", Inline(), Fixed(2), nil))

	title := model.NewTitle("h", "Fruit")
	spacer := &model.SpacerHeaderFooter{ID: "sp"}

	h, err := r.HeaderTemplate(0, title)
	require.NoError(t, err)
	assert.Equal(t, "title-header", h.Template)

	f, err := r.FooterTemplate(0, spacer)
	require.NoError(t, err)
	assert.Equal(t, "spacer-footer", f.Template)

	_, err = r.FooterTemplate(1, title)
	var nm *NoMatchingTemplateError
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, "footer", nm.Role)
	assert.Equal(t, 1, nm.Path.Section)

	assert.Equal(t, 1, r.HeaderSize(0, title))
	assert.Equal(t, 2, r.FooterSize(0, spacer))
	assert.Equal(t, 0, r.HeaderSize(0, nil))
	assert.Equal(t, Automatic, r.HeaderSize(0, spacer))
}

func TestHeaderWithoutRules(t *testing.T) {
	r := NewResolver()
	rule, err := r.HeaderTemplate(0, model.NewTitle("h", "x"))
	assert.NoError(t, err)
	assert.Nil(t, rule)

	rule, err = r.FooterTemplate(0, nil)
	assert.NoError(t, err)
	assert.Nil(t, rule)
}

func TestRegister(t *testing.T) {
	r := NewResolver(
		RowFor[*model.TextRow]("text", Inline(), AutoSize(), nil),
		RowFor[otherRow]("other", External("other.tmpl"), AutoSize(), nil),
	)
	r.SetHeaders(HeaderFooterFor[*model.TitleHeaderFooter]("title", ByType(func() View { return &fakeView{} }), AutoSize(), nil))

	reg := &recordingRegistrar{}
	r.Register(reg)

	assert.Equal(t, []string{"text/inline", "other/external"}, reg.rows)
	assert.Equal(t, []string{"title/type"}, reg.headers)
}
