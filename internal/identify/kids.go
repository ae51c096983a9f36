package identify

import (
	"strconv"
	"strings"

	"mediasort/internal/config"
	"mediasort/internal/tmdb"
)

// certAges maps certification labels to minimum viewer ages per country.
var certAges = map[string]map[string]int{
	"ES": {
		"TP": 0, "APTA": 0, "0": 0, "7": 7, "12": 12, "16": 16, "18": 18,
	},
	"US": {
		"G": 0, "PG": 7, "PG-13": 13, "R": 17, "NC-17": 18,
		"TV-Y": 0, "TV-Y7": 7, "TV-G": 0, "TV-PG": 10, "TV-14": 14, "TV-MA": 17,
	},
	"GB": {
		"U": 0, "PG": 8, "12": 12, "12A": 12, "15": 15, "18": 18,
	},
}

// certificationAge maps one certification label to a minimum age.
func certificationAge(country, cert string) (int, bool) {
	cert = strings.ToUpper(strings.TrimSpace(cert))
	if cert == "" {
		return 0, false
	}
	if table, ok := certAges[strings.ToUpper(country)]; ok {
		if age, ok := table[cert]; ok {
			return age, true
		}
	}
	// Unknown label: a leading number is usually the age itself.
	digits := cert
	for i, r := range cert {
		if r < '0' || r > '9' {
			digits = cert[:i]
			break
		}
	}
	if len(digits) >= 1 && len(digits) <= 2 {
		if age, err := strconv.Atoi(digits); err == nil {
			return age, true
		}
	}
	return 0, false
}

// certificationMinAge picks the minimum certification age from the first
// country in order that carries any rating.
func certificationMinAge(blocks []tmdb.CertBlock, order []string) (int, bool) {
	byCountry := make(map[string][]string, len(blocks))
	for _, block := range blocks {
		country := strings.ToUpper(block.Country)
		if block.Rating != "" {
			byCountry[country] = append(byCountry[country], block.Rating)
		}
		for _, entry := range block.ReleaseDates {
			if entry.Certification != "" {
				byCountry[country] = append(byCountry[country], entry.Certification)
			}
		}
	}

	seen := make(map[string]bool, len(order))
	ordered := make([]string, 0, len(byCountry))
	for _, country := range order {
		country = strings.ToUpper(country)
		seen[country] = true
		ordered = append(ordered, country)
	}
	for country := range byCountry {
		if !seen[country] {
			ordered = append(ordered, country)
		}
	}

	for _, country := range ordered {
		minAge, found := 0, false
		for _, cert := range byCountry[country] {
			if age, ok := certificationAge(country, cert); ok {
				if !found || age < minAge {
					minAge, found = age, true
				}
			}
		}
		if found {
			return minAge, true
		}
	}
	return 0, false
}

// isKidsContent applies the kids rule: young certification age or a kids
// genre, vetoed by blacklisted title keywords.
func isKidsContent(title string, age int, ageKnown bool, genres []string, cfg config.Kids) bool {
	if !cfg.Enabled {
		return false
	}

	qualifies := ageKnown && age <= cfg.MaxAge
	if !qualifies {
		for _, genre := range genres {
			for _, want := range cfg.Genres {
				if strings.EqualFold(genre, want) {
					qualifies = true
				}
			}
		}
	}
	if !qualifies {
		return false
	}

	lower := strings.ToLower(title)
	for _, word := range cfg.TitleBlacklist {
		if word != "" && strings.Contains(lower, strings.ToLower(word)) {
			return false
		}
	}
	return true
}
