package entity

// FederalDistrict -> Region -> City is seeded once and read-only afterwards.
type FederalDistrict struct {
	ID   int64
	Name string
}

type Region struct {
	ID                int64
	Name              string
	FederalDistrictID int64
}

type City struct {
	ID                int64
	Name              string
	RegionID          int64
	FederalDistrictID int64

	Region          string
	FederalDistrict string
}
