package parser

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseLinesText(t *testing.T) {
	p := NewListingParser()
	data := []byte("iPhone 15, 128GB (SN0001)\r\nЧехол MagSafe (CH0001)\r\n")

	got, err := p.ParseLines(context.Background(), data, "список.txt")
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	want := []string{"iPhone 15, 128GB (SN0001)", "Чехол MagSafe (CH0001)", ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLines() = %v, want %v", got, want)
	}
}

func TestParseLinesWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", "iPhone 15, 128GB (SN0001)"); err != nil {
		t.Fatal(err)
	}
	// первая ячейка пустая, берётся следующая
	if err := f.SetCellValue(sheet, "B2", "Чехол MagSafe (CH0001)"); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	got, err := NewListingParser().ParseLines(context.Background(), buf.Bytes(), "список.xlsx")
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	want := []string{"iPhone 15, 128GB (SN0001)", "Чехол MagSafe (CH0001)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLines() = %v, want %v", got, want)
	}
}

func TestParseLinesTooLarge(t *testing.T) {
	data := []byte(strings.Repeat("a", MaxFileSize+1))
	if _, err := NewListingParser().ParseLines(context.Background(), data, "big.txt"); err == nil {
		t.Error("ожидалась ошибка для слишком большого файла")
	}
}
