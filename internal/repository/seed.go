package repository

import "leavedesk-backend/internal/domain"

// SeedIdentities is the roster used when no roster has been persisted yet.
func SeedIdentities() []domain.Identity {
	return []domain.Identity{
		{ID: "1", Name: "Admin User", Email: "admin@company.com", Password: "admin123", Role: domain.RoleAdmin, Department: "Human Resources", Position: "HR Director", JoinDate: domain.MustParseDate("2020-01-15")},
		{ID: "2", Name: "John Manager", Email: "john.manager@company.com", Password: "manager123", Role: domain.RoleManager, Department: "Engineering", Position: "Engineering Manager", JoinDate: domain.MustParseDate("2021-03-10")},
		{ID: "3", Name: "Sarah Employee", Email: "sarah.employee@company.com", Password: "employee123", Role: domain.RoleEmployee, ManagerID: "2", Department: "Engineering", Position: "Software Developer", JoinDate: domain.MustParseDate("2022-06-01")},
		{ID: "4", Name: "Mike Developer", Email: "mike.dev@company.com", Password: "employee123", Role: domain.RoleEmployee, ManagerID: "2", Department: "Engineering", Position: "Senior Developer", JoinDate: domain.MustParseDate("2021-09-15")},
		{ID: "5", Name: "Emma Wilson", Email: "emma.wilson@company.com", Password: "employee123", Role: domain.RoleEmployee, ManagerID: "2", Department: "Engineering", Position: "Frontend Developer", JoinDate: domain.MustParseDate("2023-01-20")},
	}
}

func SeedLeaveRequests() []domain.LeaveRequest {
	return []domain.LeaveRequest{
		{
			ID: "1", EmployeeID: "3", EmployeeName: "Sarah Employee", LeaveType: domain.LeaveAnnual,
			StartDate: domain.MustParseDate("2024-08-15"), EndDate: domain.MustParseDate("2024-08-20"),
			Reason: "Family vacation", Status: domain.StatusPending,
			AppliedDate: domain.MustParseDate("2024-07-25"), TotalDays: 6,
		},
		{
			ID: "2", EmployeeID: "4", EmployeeName: "Mike Developer", LeaveType: domain.LeaveSick,
			StartDate: domain.MustParseDate("2024-07-10"), EndDate: domain.MustParseDate("2024-07-12"),
			Reason: "Flu symptoms", Status: domain.StatusApproved,
			AppliedDate: domain.MustParseDate("2024-07-09"), ReviewedBy: "2", ReviewedDate: domain.MustParseDate("2024-07-09"),
			Comments: "Approved. Get well soon!", TotalDays: 3,
		},
		{
			ID: "3", EmployeeID: "5", EmployeeName: "Emma Wilson", LeaveType: domain.LeaveCasual,
			StartDate: domain.MustParseDate("2024-07-20"), EndDate: domain.MustParseDate("2024-07-20"),
			Reason: "Personal work", Status: domain.StatusRejected,
			AppliedDate: domain.MustParseDate("2024-07-15"), ReviewedBy: "2", ReviewedDate: domain.MustParseDate("2024-07-16"),
			Comments: "Please reschedule due to important project deadline", TotalDays: 1,
		},
		{
			ID: "4", EmployeeID: "3", EmployeeName: "Sarah Employee", LeaveType: domain.LeaveCasual,
			StartDate: domain.MustParseDate("2024-06-15"), EndDate: domain.MustParseDate("2024-06-16"),
			Reason: "Wedding ceremony", Status: domain.StatusApproved,
			AppliedDate: domain.MustParseDate("2024-06-01"), ReviewedBy: "2", ReviewedDate: domain.MustParseDate("2024-06-02"),
			Comments: "Approved. Congratulations!", TotalDays: 2,
		},
		{
			ID: "5", EmployeeID: "4", EmployeeName: "Mike Developer", LeaveType: domain.LeaveAnnual,
			StartDate: domain.MustParseDate("2024-09-01"), EndDate: domain.MustParseDate("2024-09-10"),
			Reason: "Planned vacation", Status: domain.StatusPending,
			AppliedDate: domain.MustParseDate("2024-07-28"), TotalDays: 10,
		},
	}
}

func SeedLeaveBalances() []domain.LeaveBalance {
	return []domain.LeaveBalance{
		{ID: "1", EmployeeID: "3", CasualLeavesRemaining: 10, SickLeavesRemaining: 8, AnnualLeavesRemaining: 15, TotalCasualLeaves: 12, TotalSickLeaves: 10, TotalAnnualLeaves: 20, Year: 2024},
		{ID: "2", EmployeeID: "4", CasualLeavesRemaining: 12, SickLeavesRemaining: 7, AnnualLeavesRemaining: 10, TotalCasualLeaves: 12, TotalSickLeaves: 10, TotalAnnualLeaves: 20, Year: 2024},
		{ID: "3", EmployeeID: "5", CasualLeavesRemaining: 11, SickLeavesRemaining: 10, AnnualLeavesRemaining: 20, TotalCasualLeaves: 12, TotalSickLeaves: 10, TotalAnnualLeaves: 20, Year: 2024},
	}
}
