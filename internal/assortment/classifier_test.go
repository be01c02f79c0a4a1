package assortment

import (
	"reflect"
	"strings"
	"testing"

	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
)

func TestParseBoxedHeaders(t *testing.T) {
	text := strings.Join([]string{
		"----------------",
		"iPhone 15 Pro:",
		"----------------",
		"-",
		"iPhone 15 Pro 128GB (AAA111)",
		"iPhone 15 Pro 256GB (BBB222)",
		"",
		"-Чехлы:-",
		"Чехол MagSafe прозрачный",
	}, "\n")

	got := NewDefault().Parse(text)
	want := entity.Catalog{
		{Header: "iPhone 15 Pro", Items: []string{
			"iPhone 15 Pro 128GB (AAA111)",
			"iPhone 15 Pro 256GB (BBB222)",
		}},
		{Header: "Чехлы", Items: []string{"Чехол MagSafe прозрачный"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %#v, want %#v", got, want)
	}
}

func TestParseLeadingItemsGoFallback(t *testing.T) {
	text := "Кабель USB-C 2м (CAB001)\nПереходник Lightning (CAB002)"

	got := NewDefault().Parse(text)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Header != "Общее" {
		t.Errorf("Header = %q, want %q", got[0].Header, "Общее")
	}
	if len(got[0].Items) != 2 {
		t.Errorf("Items = %v", got[0].Items)
	}
}

func TestParseDropsSubHeadersAndSeparators(t *testing.T) {
	text := strings.Join([]string{
		"-iPhone 14:-",
		"-",
		"128GB:",
		"-",
		"-eSIM-",
		"iPhone 14 128GB (eSIM) (SN0001)",
		"-",
		"iPhone 14 128GB (SN0002)",
	}, "\n")

	got := NewDefault().Parse(text)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	want := []string{"iPhone 14 128GB (eSIM) (SN0001)", "iPhone 14 128GB (SN0002)"}
	if !reflect.DeepEqual(got[0].Items, want) {
		t.Errorf("Items = %v, want %v", got[0].Items, want)
	}
}

func TestParsePrunesEmptyCategories(t *testing.T) {
	text := "-Пустая:-\n-Чехлы:-\nЧехол книжка (CH0001)"

	got := NewDefault().Parse(text)
	if len(got) != 1 || got[0].Header != "Чехлы" {
		t.Errorf("Parse() = %#v, want только Чехлы", got)
	}
}

func TestRenderPhoneGrouping(t *testing.T) {
	catalog := entity.Catalog{
		{Header: "iPhone 15 Pro", Items: []string{
			"iPhone 15 Pro 256GB, Blue (CCC333)",
			"iPhone 15 Pro 128GB (eSIM), Black (AAA111)",
			"iPhone 15 Pro 128GB, White (BBB222)",
		}},
	}

	got := NewDefault().Render(catalog)
	want := strings.Join([]string{
		"----------------",
		"iPhone 15 Pro:",
		"----------------",
		"-",
		"128GB:",
		"-",
		"-eSIM-",
		"-",
		"iPhone 15 Pro 128GB (eSIM), Black (AAA111)",
		"-",
		"iPhone 15 Pro 128GB, White (BBB222)",
		"-",
		"256GB:",
		"-",
		"iPhone 15 Pro 256GB, Blue (CCC333)",
		"-",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderMemoryOrderTBAfterGB(t *testing.T) {
	catalog := entity.Catalog{
		{Header: "iPhone 15 Pro Max", Items: []string{
			"iPhone 15 Pro Max 1TB (TTT111)",
			"iPhone 15 Pro Max 512GB (GGG111)",
		}},
	}

	got := NewDefault().Render(catalog)
	if strings.Index(got, "512GB:") > strings.Index(got, "1TB:") {
		t.Errorf("512GB должен идти раньше 1TB:\n%s", got)
	}
}

func TestRenderWatchSizes(t *testing.T) {
	catalog := entity.Catalog{
		{Header: "Apple Watch", Items: []string{
			"Apple Watch S9 45mm (WWW222)",
			"Apple Watch S9 41mm (WWW111)",
			"Ремешок Sport Band (WWW333)",
		}},
	}

	got := NewDefault().Render(catalog)
	i41 := strings.Index(got, "41mm:")
	i45 := strings.Index(got, "45mm:")
	iStrap := strings.Index(got, "Ремешок Sport Band (WWW333)")
	if i41 < 0 || i45 < 0 || iStrap < 0 {
		t.Fatalf("Render() =\n%s", got)
	}
	if !(i41 < i45 && i45 < iStrap) {
		t.Errorf("порядок групп часов нарушен:\n%s", got)
	}
}

func TestRenderLaptopGenerations(t *testing.T) {
	catalog := entity.Catalog{
		{Header: "MacBook", Items: []string{
			"MacBook Air M2 256GB (MMM222)",
			"MacBook Pro M1 512GB (MMM111)",
			"MacBook Air Intel 256GB (MMM333)",
		}},
	}

	got := NewDefault().Render(catalog)
	iM1 := strings.Index(got, "M1:")
	iM2 := strings.Index(got, "M2:")
	iOther := strings.Index(got, "Other:")
	if iM1 < 0 || iM2 < 0 || iOther < 0 {
		t.Fatalf("Render() =\n%s", got)
	}
	if !(iM1 < iM2 && iM2 < iOther) {
		t.Errorf("порядок поколений нарушен:\n%s", got)
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	c := NewDefault()
	catalog := entity.Catalog{
		{Header: "iPhone 15 Pro", Items: []string{
			"iPhone 15 Pro 128GB, Black (AAA111)",
			"iPhone 15 Pro 256GB, Blue (BBB222)",
		}},
		{Header: "Чехлы", Items: []string{"Чехол MagSafe (CH0001)"}},
	}

	got := c.Parse(c.Render(catalog))
	if !reflect.DeepEqual(got, catalog) {
		t.Errorf("round trip: got %#v, want %#v", got, catalog)
	}
}

func TestClassifyDestination(t *testing.T) {
	c := NewDefault()
	catalog := entity.Catalog{
		{Header: "iPhone 15 Pro 128GB", Items: nil},
		{Header: "Galaxy S23 Ultra", Items: nil},
	}

	tests := []struct {
		name string
		item string
		want int
	}{
		{"точное совпадение базового имени", "iPhone 15 Pro, 128GB, Black (SN1)", 0},
		{"заголовок шире позиции", "Galaxy S23, Green (SN2)", 1},
		{"нет подходящей категории", "PlayStation 5 (SN3)", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ClassifyDestination(tt.item, catalog); got != tt.want {
				t.Errorf("ClassifyDestination(%q) = %d, want %d", tt.item, got, tt.want)
			}
		})
	}
}

func TestInsertUsedMarker(t *testing.T) {
	c := NewDefault()
	catalog := entity.Catalog{
		{Header: "iPhone 12", Items: []string{"iPhone 12 64GB (OLD111)"}},
	}

	catalog, idx := c.Insert("б/у iPhone 12 128GB (OLD222)", catalog)
	if catalog[idx].Header != "Б/У:" {
		t.Errorf("Header = %q, want Б/У:", catalog[idx].Header)
	}

	// вторая б/у позиция попадает в ту же категорию
	catalog, idx2 := c.Insert("Б/У Apple Watch S8 (OLD333)", catalog)
	if idx2 != idx {
		t.Errorf("idx2 = %d, want %d", idx2, idx)
	}
	if len(catalog[idx].Items) != 2 {
		t.Errorf("Items = %v", catalog[idx].Items)
	}
}

func TestInsertSynthesizesHeader(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name       string
		item       string
		wantHeader string
	}{
		{"телефон: модель плюс память", "iPhone 16, 128GB, Pink (NEW111)", "iPhone 16 128GB:"},
		{"запятая: часть до неё", "Колонка JBL Flip 6, Black (NEW222)", "Колонка JBL Flip 6:"},
		{"без запятой: первые два слова", "Геймпад DualSense White (NEW333)", "Геймпад DualSense:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, idx := c.Insert(tt.item, entity.Catalog{})
			if catalog[idx].Header != tt.wantHeader {
				t.Errorf("Header = %q, want %q", catalog[idx].Header, tt.wantHeader)
			}
		})
	}
}

func TestNormalizeModelWatch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apple Watch S 9 45mm", "Apple Watch S9 45mm"},
		{"Apple Watch S9 45mm", "Apple Watch S9 45mm"},
		{"iPhone 15 Plus 256", "iPhone 15 Plus 256"},
	}
	for _, tt := range tests {
		if got := normalizeModel(tt.in); got != tt.want {
			t.Errorf("normalizeModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractMemory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"iPhone 15 Pro 256GB", "256GB"},
		{"MacBook Pro 1TB", "1TB"},
		{"Чехол прозрачный", ""},
		{"iPhone 13 128 гб", "128ГБ"},
	}
	for _, tt := range tests {
		if got := ExtractMemory(tt.in); got != tt.want {
			t.Errorf("ExtractMemory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
