package dataset

import "github.com/mesh-intelligence/tabula/pkg/types"

// DemoName is the name the demo dataset is seeded under.
const DemoName = "employees"

// Employees returns the demo dataset: twelve employees with salary shown in
// rupees and rating to one decimal, sorted by name.
func Employees() *types.Dataset {
	return &types.Dataset{
		Name: DemoName,
		Columns: []types.ColumnSpec{
			{Key: "name", Label: "Name"},
			{Key: "role", Label: "Role"},
			{Key: "team", Label: "Team"},
			{Key: "salary", Label: "Salary (₹)", Format: "inr"},
			{Key: "rating", Label: "Rating", Format: "fixed1"},
			{Key: "active", Label: "Active"},
		},
		IDField:     types.IDField,
		InitialSort: &types.SortSpec{Key: "name", Direction: types.SortAsc},
		Records: []types.Record{
			{"id": 1, "name": "Aarav", "role": "Engineer", "team": "Web", "salary": 850000, "rating": 4.6, "active": true},
			{"id": 2, "name": "Isha", "role": "Designer", "team": "Design", "salary": 680000, "rating": 4.2, "active": true},
			{"id": 3, "name": "Kabir", "role": "Analyst", "team": "Data", "salary": 720000, "rating": 4.4, "active": false},
			{"id": 4, "name": "Neha", "role": "PM", "team": "Platform", "salary": 1200000, "rating": 4.8, "active": true},
			{"id": 5, "name": "Rohan", "role": "DevOps", "team": "Infra", "salary": 950000, "rating": 4.5, "active": true},
			{"id": 6, "name": "Diya", "role": "QA", "team": "Quality", "salary": 640000, "rating": 4.1, "active": true},
			{"id": 7, "name": "Arjun", "role": "Engineer", "team": "Web", "salary": 880000, "rating": 4.7, "active": true},
			{"id": 8, "name": "Meera", "role": "Engineer", "team": "Mobile", "salary": 910000, "rating": 4.3, "active": false},
			{"id": 9, "name": "Vikram", "role": "Designer", "team": "Design", "salary": 705000, "rating": 4.0, "active": true},
			{"id": 10, "name": "Riya", "role": "Analyst", "team": "Data", "salary": 770000, "rating": 4.6, "active": true},
			{"id": 11, "name": "Kunal", "role": "PM", "team": "Platform", "salary": 1250000, "rating": 4.9, "active": true},
			{"id": 12, "name": "Sara", "role": "QA", "team": "Quality", "salary": 660000, "rating": 4.2, "active": true},
		},
	}
}
