package competition

import "strings"

// OtherRegion collects competitions no keyword matched.
const OtherRegion = "Other"

type region struct {
	name     string
	keywords []string
}

var regions = []region{
	{"Europe", []string{
		"epl", "efl", "england", "spain", "italy", "germany", "france", "netherlands", "portugal",
		"belgium", "switzerland", "austria", "turkey", "greece", "denmark", "sweden", "norway",
		"finland", "poland", "czech", "slovakia", "hungary", "romania", "bulgaria", "croatia",
		"serbia", "slovenia", "russia", "ukraine", "uefa", "scotland", "wales", "ireland",
		"iceland", "faroe", "luxembourg", "malta", "cyprus", "latvia", "lithuania", "estonia",
		"albania", "macedonia", "montenegro", "bosnia", "kosovo", "moldova", "georgia",
		"armenia", "azerbaijan",
	}},
	{"South America", []string{
		"brazil", "argentina", "chile", "colombia", "peru", "uruguay", "ecuador", "bolivia",
		"paraguay", "venezuela", "conmebol", "copa_america",
	}},
	{"North America", []string{"usa", "mexico", "canada", "concacaf"}},
	{"Asia", []string{
		"japan", "south_korea", "china", "australia", "saudi", "uae", "qatar", "iran", "iraq",
		"thailand", "vietnam", "malaysia", "singapore", "indonesia", "philippines", "india",
		"afc", "kazakhstan", "uzbekistan", "kyrgyzstan", "tajikistan", "turkmenistan",
		"afghanistan", "bangladesh", "bhutan", "cambodia", "laos", "myanmar", "nepal",
		"sri_lanka", "maldives", "pakistan",
	}},
	{"Africa", []string{
		"south_africa", "egypt", "morocco", "tunisia", "algeria", "nigeria", "ghana", "kenya",
		"uganda", "tanzania", "zambia", "zimbabwe", "caf",
	}},
	{"International", []string{"fifa", "olympics", "friendlies"}},
	{"Women", []string{
		"women", "wsl", "nwsl", "feminine", "femenina", "frauen", "femminile", "vrouwen",
		"damall", "kvinde", "feminino", "toppserien",
	}},
}

// RegionGroup is one bucket of the categorisation.
type RegionGroup struct {
	Name         string
	Competitions []string
}

// Categorize groups competition keys by region keyword. A key can land in
// several regions; keys that match nothing are collected under OtherRegion.
// Empty regions are omitted.
func Categorize(keys []string) []RegionGroup {
	groups := make([]RegionGroup, 0, len(regions)+1)
	matched := make(map[string]bool, len(keys))

	for _, r := range regions {
		var members []string
		for _, key := range keys {
			if matchesAny(key, r.keywords) {
				members = append(members, key)
				matched[key] = true
			}
		}
		if len(members) > 0 {
			groups = append(groups, RegionGroup{Name: r.name, Competitions: members})
		}
	}

	var rest []string
	for _, key := range keys {
		if !matched[key] {
			rest = append(rest, key)
		}
	}
	if len(rest) > 0 {
		groups = append(groups, RegionGroup{Name: OtherRegion, Competitions: rest})
	}
	return groups
}

func matchesAny(key string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}
