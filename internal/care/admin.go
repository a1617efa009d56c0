package care

// MonthlyConsultations is one point of the consultation trend.
type MonthlyConsultations struct {
	Month         string
	Consultations int
	Revenue       int
}

type VillageStat struct {
	Village       string
	Patients      int
	Consultations int
	Status        string
}

type Consultation struct {
	ID          string
	Patient     string
	Doctor      string
	CallType    CallType
	Status      string
	DurationMin int
	Village     string
	Ago         string
}

type SystemHealth struct {
	UptimePct         float64
	ActiveConnections int
	ServerLoadPct     int
	DatabaseHealthPct int
	APIResponseMS     int
}

// AdminOverview backs the admin dashboard.
type AdminOverview struct {
	Trend          []MonthlyConsultations
	Users          map[string]int
	Villages       []VillageStat
	Recent         []Consultation
	Health         SystemHealth
	Appointments   int
	ActiveVillages int
}

// GrowthPct is the month-over-month change of the last two trend points.
func (o AdminOverview) GrowthPct() int {
	n := len(o.Trend)
	if n < 2 || o.Trend[n-2].Consultations == 0 {
		return 0
	}
	prev, last := o.Trend[n-2].Consultations, o.Trend[n-1].Consultations
	return (last - prev) * 100 / prev
}

// TotalConsultations sums the trend.
func (o AdminOverview) TotalConsultations() int {
	total := 0
	for _, m := range o.Trend {
		total += m.Consultations
	}
	return total
}

// FilterVillages matches the admin search box against village names.
func FilterVillages(vs []VillageStat, query string) []VillageStat {
	out := make([]VillageStat, 0, len(vs))
	for _, v := range vs {
		if Matches(query, v.Village) {
			out = append(out, v)
		}
	}
	return out
}
