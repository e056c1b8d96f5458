package i18n

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalesHaveEveryKey(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"en", "fa"}, catalog.Langs())

	for _, lang := range catalog.Langs() {
		texts := reflect.ValueOf(*catalog.Texts(lang))
		for i := 0; i < texts.NumField(); i++ {
			field := texts.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			assert.NotEmpty(t, texts.Field(i).String(), "%s.%s", lang, field.Name)
		}
	}
}

func TestTextsMatchOriginalWording(t *testing.T) {
	catalog := Default()

	assert.Equal(t, "Upload your Excel or CSV file:", catalog.Texts("en").Upload)
	assert.Equal(t, "بدون فیلتر", catalog.Texts("fa").NoFilters)
	assert.Equal(t, "rtl", catalog.Texts("fa").Dir)
	assert.Equal(t, "{y} بر اساس {x}", catalog.Texts("fa").ByTemplate)
	assert.Equal(t, catalog.Texts("en"), catalog.Texts("de"), "unknown locales fall back to English")
}

func TestMatch(t *testing.T) {
	catalog := Default()

	tests := []struct {
		name     string
		explicit string
		accept   string
		fallback string
		want     string
	}{
		{name: "explicit wins", explicit: "fa", accept: "en-US", fallback: "en", want: "fa"},
		{name: "explicit is case-insensitive", explicit: "EN", fallback: "fa", want: "en"},
		{name: "unknown explicit uses header", explicit: "de", accept: "fa-IR,fa;q=0.9", fallback: "en", want: "fa"},
		{name: "header with weights", accept: "fr;q=0.9,fa;q=0.8", fallback: "en", want: "fa"},
		{name: "english header", accept: "en-GB", fallback: "fa", want: "en"},
		{name: "unrelated header uses fallback", accept: "de-DE", fallback: "fa", want: "fa"},
		{name: "nothing given", fallback: "fa", want: "fa"},
		{name: "bad fallback", fallback: "xx", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.Match(tt.explicit, tt.accept, tt.fallback))
		})
	}
}

func TestFormatting(t *testing.T) {
	en := Default().Texts("en")

	assert.Equal(t, "1,234", en.Int(1234))
	assert.Equal(t, "📛 To draw a pie chart, the X column must have at most 15 unique values.", en.PieWarningFor(15))
	assert.Equal(t, "Values for column status", en.FilterValuesFor("status"))
	assert.Equal(t, "❌ Error processing file: bad header", en.ParseErrorFor(errors.New("bad header")))

	fa := Default().Texts("fa")
	assert.Contains(t, fa.ParseErrorFor(errors.New("bad header")), "خطا در پردازش فایل: bad header")
	assert.NotContains(t, fa.PieWarningFor(15), "{limit}")
}

func TestMarkdown(t *testing.T) {
	assert.Equal(t, "<strong>Number of Rows:</strong> 40", Markdown("**Number of Rows:** 40"))
	assert.NotContains(t, Markdown("<script>alert(1)</script> hi"), "<script>")
}
