package router

// View identifies the active screen.
type View int

const (
	Dashboard View = iota
	DoctorSelection
	AppointmentScheduler
	VideoCall
	HealthRecords
	EmergencyInfo
	MedicineTracker
	PharmacyLocator
	SymptomChecker
	AdminDashboard
)

var viewNames = map[View]string{
	Dashboard:            "dashboard",
	DoctorSelection:      "doctor-selection",
	AppointmentScheduler: "appointment-scheduler",
	VideoCall:            "video-call",
	HealthRecords:        "health-records",
	EmergencyInfo:        "emergency-info",
	MedicineTracker:      "medicine-tracker",
	PharmacyLocator:      "pharmacy-locator",
	SymptomChecker:       "ai-symptom-checker",
	AdminDashboard:       "admin-dashboard",
}

func (v View) String() string {
	if n, ok := viewNames[v]; ok {
		return n
	}
	return "unknown"
}

// parents is the single back transition of every sub-screen.
var parents = map[View]View{
	DoctorSelection:      Dashboard,
	AppointmentScheduler: DoctorSelection,
	VideoCall:            Dashboard,
	HealthRecords:        Dashboard,
	EmergencyInfo:        HealthRecords,
	MedicineTracker:      Dashboard,
	PharmacyLocator:      MedicineTracker,
	SymptomChecker:       Dashboard,
}

// Parent returns the screen Back leads to; root screens are their own parent.
func (v View) Parent() View {
	if p, ok := parents[v]; ok {
		return p
	}
	return v
}

// QuickAction is a dashboard tile.
type QuickAction int

const (
	ActionVideoCall QuickAction = iota
	ActionAudioCall
	ActionSymptomChecker
	ActionMedicineTracker
	ActionHealthRecords
)

func (a QuickAction) String() string {
	switch a {
	case ActionVideoCall:
		return "video-call"
	case ActionAudioCall:
		return "audio-call"
	case ActionSymptomChecker:
		return "symptom-checker"
	case ActionMedicineTracker:
		return "medicine-tracker"
	case ActionHealthRecords:
		return "health-records"
	}
	return "unknown"
}
