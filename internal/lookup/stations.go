package lookup

// Station pairs a district keyword with its nearest subway station.
type Station struct {
	District    string
	Name        string
	WalkMinutes int
}

// stations is scanned in order; the first district found in an address wins,
// so more specific keywords must come before the ones they contain.
var stations = []Station{
	{District: "Sinchon", Name: "Sinchon Station", WalkMinutes: 5},
	{District: "Hongdae", Name: "Hongik Univ. Station", WalkMinutes: 5},
	{District: "Mapo", Name: "Mapo Station", WalkMinutes: 8},
	{District: "Seodaemun", Name: "Ewha Womans Univ. Station", WalkMinutes: 10},
	{District: "Anam", Name: "Anam Station", WalkMinutes: 5},
	{District: "Seongbuk", Name: "Korea Univ. Station", WalkMinutes: 10},
	{District: "Nakseongdae", Name: "Nakseongdae Station", WalkMinutes: 5},
	{District: "Sillim", Name: "Sillim Station", WalkMinutes: 7},
	{District: "Gwanak", Name: "Seoul Nat'l Univ. Station", WalkMinutes: 10},
	{District: "Hoegi", Name: "Hoegi Station", WalkMinutes: 5},
	{District: "Dongdaemun", Name: "Dongdaemun Station", WalkMinutes: 8},
	{District: "Wangsimni", Name: "Wangsimni Station", WalkMinutes: 5},
	{District: "Seongdong", Name: "Hanyang Univ. Station", WalkMinutes: 10},
	{District: "Heukseok", Name: "Heukseok Station", WalkMinutes: 5},
	{District: "Dongjak", Name: "Sangdo Station", WalkMinutes: 10},
	{District: "Gangnam", Name: "Gangnam Station", WalkMinutes: 7},
	{District: "Gwangjin", Name: "Konkuk Univ. Station", WalkMinutes: 8},
}

// DefaultStationLabel is shown when no district matches.
const DefaultStationLabel = "Check the map for the nearest station"

// Stations returns the district table in match order.
func Stations() []Station {
	out := make([]Station, len(stations))
	copy(out, stations)
	return out
}
