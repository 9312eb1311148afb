package models

// DashboardStats aggregates the landing-page counters.
type DashboardStats struct {
	TotalFaculty        int `json:"total_faculty"`
	TotalClassrooms     int `json:"total_classrooms"`
	TotalCourses        int `json:"total_courses"`
	AvailableClassrooms int `json:"available_classrooms"`
	PendingAbsences     int `json:"pending_absences"`
	TodayAbsences       int `json:"today_absences"`
	TodayClasses        int `json:"today_classes"`
}
