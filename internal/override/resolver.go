// Package override подменяет результаты поиска фиксированным персональным набором
// для нескольких запросов-имён. Сеть при этом не используется.
package override

import (
	"strings"

	"github.com/GoArmGo/PhotoSearch/internal/domain"
)

// aliases сравниваются как подстроки нормализованного запроса
var aliases = []string{
	"abhay",
	"abhay virus",
	"abhay tiwari",
	"abhay d95",
	"abhay_d95",
}

const (
	profileURL = "https://www.instagram.com/abhay_d95/"
	profileImg = "/abhay.jpg"
	authorName = "Abhay (Abhay Virus / Abhay Tiwari)"
)

// Resolve возвращает персональные результаты, если запрос содержит один из алиасов,
// иначе пустой срез.
func Resolve(query string) []domain.Photo {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" || !matches(normalized) {
		return nil
	}

	return []domain.Photo{{
		ID:   "abhay-profile",
		Kind: domain.PhotoKindPersonal,
		URLs: domain.PhotoURLs{
			Small:   profileImg,
			Regular: profileImg,
			Full:    profileImg,
		},
		Links: domain.PhotoLinks{
			HTML: profileURL,
		},
		Author: domain.Author{
			Name:       authorName,
			ProfileURL: profileURL,
		},
		AltDescription: authorName,
		Description:    "Personal profile of " + authorName,
		Subtitle:       "From Instagram",
	}}
}

func matches(normalized string) bool {
	for _, alias := range aliases {
		if strings.Contains(normalized, alias) {
			return true
		}
	}
	return false
}
