package populate

// Conference membership is not exposed by the static team list, so it is
// maintained here by abbreviation. 15 teams per conference.
var easternConference = map[string]struct{}{
	"ATL": {}, "BOS": {}, "BKN": {}, "CHA": {}, "CHI": {},
	"CLE": {}, "DET": {}, "IND": {}, "MIA": {}, "MIL": {},
	"NYK": {}, "ORL": {}, "PHI": {}, "TOR": {}, "WAS": {},
}

var westernConference = map[string]struct{}{
	"DAL": {}, "DEN": {}, "GSW": {}, "HOU": {}, "LAC": {},
	"LAL": {}, "MEM": {}, "MIN": {}, "NOP": {}, "OKC": {},
	"PHX": {}, "POR": {}, "SAC": {}, "SAS": {}, "UTA": {},
}

// conferenceFor maps a team abbreviation to its conference. Unknown
// abbreviations return the empty string.
func conferenceFor(abbreviation string) string {
	if _, ok := easternConference[abbreviation]; ok {
		return "East"
	}
	if _, ok := westernConference[abbreviation]; ok {
		return "West"
	}
	return ""
}

// logoFor returns the static asset path for a team logo.
func logoFor(abbreviation string) string {
	return "/static/logos/" + abbreviation + ".svg"
}
