package assortment

// Vocabulary словарь ключевых слов, по которым выбираются правила
// классификации и группировки. Подбирается под ассортимент магазина,
// в коде ничего не захардкожено.
type Vocabulary struct {
	// Ключевые слова в заголовке категории (поиск подстроки без регистра)
	PhoneKeywords    []string
	WearableKeywords []string
	LaptopKeywords   []string

	// Порядок поколений чипов для ноутбучных категорий
	Generations []string

	// Маркер б/у товара в начале строки и заголовок категории для него
	UsedMarker string
	UsedHeader string

	// Заголовок для позиций без категории в начале текста
	FallbackHeader string
}

// DefaultVocabulary словарь для магазина техники Apple
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		PhoneKeywords:    []string{"iphone", "айфон"},
		WearableKeywords: []string{"apple watch", "watch"},
		LaptopKeywords:   []string{"macbook", "imac", "mac mini"},
		Generations:      []string{"M1", "M2", "M3", "M4", "M5", "M6"},
		UsedMarker:       "б/у",
		UsedHeader:       "Б/У:",
		FallbackHeader:   "Общее",
	}
}
