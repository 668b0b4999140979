package domain

// Enumerations
const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"

	LeaveCasual    LeaveCategory = "Casual"
	LeaveSick      LeaveCategory = "Sick"
	LeaveAnnual    LeaveCategory = "Annual"
	LeaveMaternity LeaveCategory = "Maternity"
	LeavePaternity LeaveCategory = "Paternity"
	LeaveEmergency LeaveCategory = "Emergency"

	StatusPending  LeaveStatus = "Pending"
	StatusApproved LeaveStatus = "Approved"
	StatusRejected LeaveStatus = "Rejected"
)

type Role string
type LeaveCategory string
type LeaveStatus string

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleManager, RoleEmployee}

// LeaveCategories lists every category in the order the application form offers them.
var LeaveCategories = []LeaveCategory{LeaveCasual, LeaveSick, LeaveAnnual, LeaveMaternity, LeavePaternity, LeaveEmergency}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

func (c LeaveCategory) Valid() bool {
	for _, v := range LeaveCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Tracked reports whether the category has a balance counter.
func (c LeaveCategory) Tracked() bool {
	return c == LeaveCasual || c == LeaveSick || c == LeaveAnnual
}

func (s LeaveStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Identity struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password,omitempty"`
	Role       Role   `json:"role"`
	ManagerID  string `json:"managerId,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	JoinDate   Date   `json:"joinDate"`
}

// Public returns a copy without the credential.
func (i Identity) Public() Identity {
	i.Password = ""
	return i
}

type LeaveRequest struct {
	ID           string        `json:"id"`
	EmployeeID   string        `json:"employeeId"`
	EmployeeName string        `json:"employeeName"`
	LeaveType    LeaveCategory `json:"leaveType"`
	StartDate    Date          `json:"startDate"`
	EndDate      Date          `json:"endDate"`
	Reason       string        `json:"reason"`
	Status       LeaveStatus   `json:"status"`
	AppliedDate  Date          `json:"appliedDate"`
	ReviewedBy   string        `json:"reviewedBy,omitempty"`
	ReviewedDate Date          `json:"reviewedDate"`
	Comments     string        `json:"comments,omitempty"`
	TotalDays    int           `json:"totalDays"`
}

type LeaveBalance struct {
	ID                    string `json:"id"`
	EmployeeID            string `json:"employeeId"`
	CasualLeavesRemaining int    `json:"casualLeavesRemaining"`
	SickLeavesRemaining   int    `json:"sickLeavesRemaining"`
	AnnualLeavesRemaining int    `json:"annualLeavesRemaining"`
	TotalCasualLeaves     int    `json:"totalCasualLeaves"`
	TotalSickLeaves       int    `json:"totalSickLeaves"`
	TotalAnnualLeaves     int    `json:"totalAnnualLeaves"`
	Year                  int    `json:"year"`
}

// CategoryBalance is one row of the balance card.
type CategoryBalance struct {
	Type      LeaveCategory
	Remaining int
	Total     int
}

type RequestCounts struct {
	Total    int
	Pending  int
	Approved int
	Rejected int
}
