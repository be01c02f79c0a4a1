package serial

import (
	"reflect"
	"testing"

	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
)

func TestIsCandidate(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		inBrackets bool
		want       bool
	}{
		{"скобки снимают все проверки", "AB12", true, true},
		{"короткий токен", "AB123", false, false},
		{"буквы с цифрами", "ABCD1234", false, true},
		{"только цифры", "356789123", false, true},
		{"телефон 11 цифр", "89991234567", false, false},
		{"телефон с плюсом", "+79991234567", false, false},
		{"объём памяти", "256GB", false, false},
		{"цена в рублях", "149990руб", false, false},
		{"размер в мм", "45mm", false, false},
		{"капс без цифр от 8 символов", "SERIALNUM", false, true},
		{"капс без цифр короче 8", "ABCDEFG", false, false},
		{"обычное слово", "наушники", false, false},
		{"модель с цифрой", "iphone15promax", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCandidate(tt.token, tt.inBrackets); got != tt.want {
				t.Errorf("IsCandidate(%q, %v) = %v, want %v", tt.token, tt.inBrackets, got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "скобки приоритетнее голого токена",
			line: "iPhone 15 Pro 256GB FFAABBCC11 (AB12)",
			want: "AB12",
		},
		{
			name: "голый токен с цифрами",
			line: "AirPods Pro 2 GX7KQ2ERTY12",
			want: "GX7KQ2ERTY12",
		},
		{
			name: "характеристики не серийник",
			line: "Чехол прозрачный 45mm 1290руб",
			want: "",
		},
		{
			name: "телефон покупателя не серийник",
			line: "Самовывоз 89991234567",
			want: "",
		},
		{
			name: "пустая строка",
			line: "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.line); got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestExtractAll(t *testing.T) {
	text := "Продажа:\niPhone 15 Pro (F2LLD0AHPN)\nWatch S9 45mm SN776RT554Q\nПовтор (F2LLD0AHPN)"

	got := ExtractAll(text)
	want := []string{"F2LLD0AHPN", "SN776RT554Q"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractAll() = %v, want %v", got, want)
	}
}

func TestExtractAllEmpty(t *testing.T) {
	if got := ExtractAll("просто текст без серийников"); len(got) != 0 {
		t.Errorf("ExtractAll() = %v, want пусто", got)
	}
}

func TestRemoveBySerial(t *testing.T) {
	catalog := entity.Catalog{
		{Header: "iPhone 15:", Items: []string{
			"iPhone 15 128GB (DUP123)",
			"iPhone 15 256GB (XYZ789)",
		}},
		{Header: "Б/У:", Items: []string{
			"б/у iPhone 15 128GB (DUP123)",
		}},
	}

	got, removed := RemoveBySerial(catalog, "DUP123")
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if len(got) != 2 {
		t.Fatalf("категории не должны удаляться: len = %d, want 2", len(got))
	}
	if len(got[0].Items) != 1 || got[0].Items[0] != "iPhone 15 256GB (XYZ789)" {
		t.Errorf("первая категория после удаления: %v", got[0].Items)
	}
	if len(got[1].Items) != 0 {
		t.Errorf("вторая категория должна опустеть: %v", got[1].Items)
	}
}

func TestRemoveBySerialNotFound(t *testing.T) {
	catalog := entity.Catalog{
		{Header: "iPhone 15:", Items: []string{"iPhone 15 128GB (ABC123)"}},
	}
	got, removed := RemoveBySerial(catalog, "NOPE99")
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if len(got[0].Items) != 1 {
		t.Errorf("позиции не должны измениться: %v", got[0].Items)
	}
}
