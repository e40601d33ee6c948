package controllers

import (
	"strings"
	"unicode"

	"mimbar/models"

	"github.com/jinzhu/gorm"
)

// Generic qualifiers that appear in almost every masjid name. A token from
// this list can never identify an entry, so it is dropped before matching.
var masjidStopWords = map[string]struct{}{
	"masjid":   {},
	"mesjid":   {},
	"mushola":  {},
	"musholla": {},
	"mushalla": {},
	"langgar":  {},
	"surau":    {},
	"jami":     {},
	"agung":    {},
	"besar":    {},
	"raya":     {},
	"al":       {},
	"an":       {},
	"ar":       {},
	"as":       {},
}

// matchTokens splits a free-text masjid name on whitespace and hyphens and
// keeps only tokens that can distinguish entries: not a stop word, longer
// than one rune.
func matchTokens(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})

	var out []string
	for _, f := range fields {
		if len([]rune(f)) <= 1 {
			continue
		}
		if _, stop := masjidStopWords[strings.ToLower(f)]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// matchMasjid resolves a free-text name (optionally narrowed by a city hint)
// to at most one approved catalog entry.
//
// An entry qualifies when its name contains ANY surviving token (OR, not
// AND — deliberately permissive so "Masjid Al-Falah" still hits "Masjid Al
// Falah"). When a city is supplied the city-narrowed query runs first and
// falls back to a global one, because senders spell cities inconsistently.
// First row by id wins.
func matchMasjid(db *gorm.DB, name string, city string) (*models.Masjid, error) {
	tokens := matchTokens(name)
	if len(tokens) == 0 {
		return nil, nil
	}

	conds := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens))
	for _, t := range tokens {
		conds = append(conds, "name LIKE ?")
		args = append(args, "%"+t+"%")
	}

	base := db.Where("status = ?", models.MASJID_STATUS_APPROVED).
		Where(strings.Join(conds, " OR "), args...)

	city = strings.TrimSpace(city)
	if city != "" {
		var m models.Masjid
		err := base.Where("city LIKE ?", "%"+city+"%").Order("id asc").First(&m).Error
		if err == nil {
			return &m, nil
		}
		if !gorm.IsRecordNotFoundError(err) {
			return nil, err
		}
	}

	var m models.Masjid
	err := base.Order("id asc").First(&m).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
