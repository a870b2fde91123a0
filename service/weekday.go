package service

import (
	"time"

	"golang.org/x/text/language"
)

// 支持的星期名称语言，第一个为默认
var weekdayLocales = []language.Tag{
	language.Chinese,
	language.English,
	language.BrazilianPortuguese,
}

var weekdayNames = [][7]string{
	{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"},
	{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"},
}

var weekdayMatcher = language.NewMatcher(weekdayLocales)

// MatchLocale 根据 Accept-Language 或语言代码选择支持的语言，fallback 为空时使用中文
func MatchLocale(acceptLanguage, fallback string) language.Tag {
	var prefs []language.Tag
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
			prefs = append(prefs, tags...)
		}
	}
	if fallback != "" {
		if tag, err := language.Parse(fallback); err == nil {
			prefs = append(prefs, tag)
		}
	}
	_, i, _ := weekdayMatcher.Match(prefs...)
	return weekdayLocales[i]
}

// WeekdayName 本地化的星期名称
func WeekdayName(day time.Weekday, locale language.Tag) string {
	_, i, _ := weekdayMatcher.Match(locale)
	return weekdayNames[i][day]
}
