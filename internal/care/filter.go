package care

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Specializations offered in the doctor filter. The value is matched as a substring.
var Specializations = []string{"all", "general", "cardiology", "pediatrics", "orthopedics", "neurology", "ophthalmology"}

// FilterLanguages offered in the doctor filter.
var FilterLanguages = []string{"all", "english", "hindi", "punjabi"}

// DoctorSort orders a filtered doctor list.
type DoctorSort string

const (
	SortRating     DoctorSort = "rating"
	SortExperience DoctorSort = "experience"
	SortFee        DoctorSort = "fee"
)

type DoctorFilter struct {
	Query          string
	Specialization string
	Language       string
	SortBy         DoctorSort
}

const (
	fuzzyMinLen  = 4
	fuzzyMaxDist = 2
)

// Matches reports whether query matches any of the fields: a case-insensitive
// substring, or for longer queries a word within a small edit distance.
func Matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		lf := strings.ToLower(f)
		if strings.Contains(lf, q) {
			return true
		}
		if len(q) < fuzzyMinLen {
			continue
		}
		for _, word := range strings.FieldsFunc(lf, splitWord) {
			if levenshtein.ComputeDistance(q, word) <= fuzzyMaxDist {
				return true
			}
		}
	}
	return false
}

func splitWord(r rune) bool {
	return r == ' ' || r == '.' || r == ',' || r == '-' || r == '/'
}

func selected(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	return v, v != "" && v != "all"
}

// FilterDoctors applies the search box, the specialization and language selectors and the sort.
func FilterDoctors(doctors []Doctor, f DoctorFilter) []Doctor {
	out := make([]Doctor, 0, len(doctors))
	spec, bySpec := selected(f.Specialization)
	lang, byLang := selected(f.Language)
	for _, d := range doctors {
		if !Matches(f.Query, d.Name, d.Specialization) {
			continue
		}
		if bySpec && !strings.Contains(strings.ToLower(d.Specialization), spec) {
			continue
		}
		if byLang && !speaks(d, lang) {
			continue
		}
		out = append(out, d)
	}
	sortDoctors(out, f.SortBy)
	return out
}

func speaks(d Doctor, lang string) bool {
	for _, l := range d.Languages {
		if strings.Contains(strings.ToLower(l), lang) {
			return true
		}
	}
	return false
}

func sortDoctors(ds []Doctor, by DoctorSort) {
	switch by {
	case SortExperience:
		sort.SliceStable(ds, func(i, j int) bool { return ds[i].Experience > ds[j].Experience })
	case SortFee:
		sort.SliceStable(ds, func(i, j int) bool { return ds[i].Fee < ds[j].Fee })
	case SortRating:
		sort.SliceStable(ds, func(i, j int) bool { return ds[i].Rating > ds[j].Rating })
	}
}
