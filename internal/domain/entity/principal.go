package entity

// Principal is the identity decoded from a bearer token issued by the auth service.
type Principal struct {
	ID         string
	Username   string
	CityID     int64
	Categories []int64
}
