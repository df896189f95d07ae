package domain

// CategoryShare is the share of a user's records in one category.
type CategoryShare struct {
	Category string
	Count    int
	Ratio    float64
}

// MenuCount is the number of records with one menu name.
type MenuCount struct {
	MenuName string
	Count    int
}

// PeriodReport summarises a user's eating habits over one period.
type PeriodReport struct {
	Period        Period
	Range         DateRange
	TotalRecords  int
	CategoryShare []CategoryShare
	TopMenus      []MenuCount
}
