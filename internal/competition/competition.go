// Package competition holds the static list of football competitions known to
// The Odds API and groups them by region for reporting.
package competition

// all mirrors the soccer sport keys published by The Odds API.
var all = []string{
	// European domestic leagues
	"soccer_epl",
	"soccer_efl_champ",
	"soccer_england_league1",
	"soccer_england_league2",
	"soccer_spain_la_liga",
	"soccer_spain_segunda_division",
	"soccer_italy_serie_a",
	"soccer_italy_serie_b",
	"soccer_germany_bundesliga",
	"soccer_germany_bundesliga2",
	"soccer_germany_liga3",
	"soccer_france_ligue_one",
	"soccer_france_ligue_two",
	"soccer_netherlands_eredivisie",
	"soccer_portugal_primeira_liga",
	"soccer_belgium_first_div",
	"soccer_switzerland_superleague",
	"soccer_austria_bundesliga",
	"soccer_turkey_super_league",
	"soccer_greece_super_league",
	"soccer_denmark_superliga",
	"soccer_sweden_allsvenskan",
	"soccer_norway_eliteserien",
	"soccer_finland_veikkausliiga",
	"soccer_poland_ekstraklasa",
	"soccer_czech_republic_fnl",
	"soccer_slovakia_super_liga",
	"soccer_hungary_nb_i",
	"soccer_romania_liga_1",
	"soccer_bulgaria_first_league",
	"soccer_croatia_hnl",
	"soccer_serbia_super_liga",
	"soccer_slovenia_prvaliga",
	"soccer_russia_premier_league",
	"soccer_ukraine_premier_league",

	// UEFA
	"soccer_uefa_champs_league",
	"soccer_uefa_europa_league",
	"soccer_uefa_europa_conference_league",
	"soccer_uefa_nations_league",
	"soccer_uefa_euros",
	"soccer_uefa_euros_qualification",

	// South America
	"soccer_brazil_campeonato",
	"soccer_brazil_serie_b",
	"soccer_argentina_primera_division",
	"soccer_chile_primera_division",
	"soccer_colombia_primera_a",
	"soccer_peru_primera_division",
	"soccer_uruguay_primera_division",
	"soccer_ecuador_primera_a",
	"soccer_bolivia_primera_division",
	"soccer_paraguay_primera_division",
	"soccer_venezuela_primera_profesional",
	"soccer_conmebol_copa_libertadores",
	"soccer_conmebol_copa_sudamericana",
	"soccer_copa_america",
	"soccer_conmebol_wc_qualification",

	// North and Central America
	"soccer_usa_mls",
	"soccer_mexico_ligamx",
	"soccer_canada_cpl",
	"soccer_concacaf_champions_league",
	"soccer_concacaf_gold_cup",
	"soccer_concacaf_nations_league",
	"soccer_concacaf_wc_qualification",

	// Asia and Oceania
	"soccer_japan_j_league",
	"soccer_japan_j_league_2",
	"soccer_south_korea_k_league_1",
	"soccer_china_super_league",
	"soccer_australia_aleague",
	"soccer_saudi_arabia_pro_league",
	"soccer_uae_arabian_gulf_league",
	"soccer_qatar_stars_league",
	"soccer_iran_pro_league",
	"soccer_iraq_premier_league",
	"soccer_thailand_premier_league",
	"soccer_vietnam_v_league",
	"soccer_malaysia_super_league",
	"soccer_singapore_premier_league",
	"soccer_indonesia_liga_1",
	"soccer_philippines_pfl",
	"soccer_india_super_league",
	"soccer_afc_asian_cup",
	"soccer_afc_wc_qualification",

	// Africa
	"soccer_south_africa_premier_division",
	"soccer_egypt_premier_league",
	"soccer_morocco_gnf_1",
	"soccer_tunisia_ligue_1",
	"soccer_algeria_ligue_1",
	"soccer_nigeria_npfl",
	"soccer_ghana_premier_league",
	"soccer_kenya_premier_league",
	"soccer_uganda_premier_league",
	"soccer_tanzania_premier_league",
	"soccer_zambia_super_league",
	"soccer_zimbabwe_premier_league",
	"soccer_caf_champions_league",
	"soccer_caf_confederation_cup",
	"soccer_caf_african_cup_of_nations",
	"soccer_caf_wc_qualification",

	// FIFA and olympic tournaments
	"soccer_fifa_world_cup",
	"soccer_fifa_world_cup_qualification",
	"soccer_fifa_confederations_cup",
	"soccer_fifa_club_world_cup",
	"soccer_fifa_womens_world_cup",
	"soccer_olympics_mens",
	"soccer_olympics_womens",

	// Women's competitions
	"soccer_fa_wsl",
	"soccer_nwsl",
	"soccer_france_feminine_1",
	"soccer_germany_frauen_bundesliga",
	"soccer_spain_primera_federacion_femenina",
	"soccer_italy_serie_a_femminile",
	"soccer_netherlands_eredivisie_vrouwen",
	"soccer_sweden_damallsvenskan",
	"soccer_norway_toppserien",
	"soccer_denmark_kvindeligaen",
	"soccer_australia_aleague_women",
	"soccer_brazil_serie_a1_feminino",
	"soccer_uefa_womens_euro",
	"soccer_uefa_womens_champions_league",

	// Smaller and regional leagues
	"soccer_scotland_premiership",
	"soccer_scotland_championship",
	"soccer_wales_premier_league",
	"soccer_northern_ireland_premiership",
	"soccer_ireland_premier_division",
	"soccer_iceland_urvalsdeild",
	"soccer_faroe_islands_premier_league",
	"soccer_luxembourg_bgl_ligue",
	"soccer_malta_premier_league",
	"soccer_cyprus_first_division",
	"soccer_latvia_virsliga",
	"soccer_lithuania_a_lyga",
	"soccer_estonia_meistriliiga",
	"soccer_albania_kategoria_superiore",
	"soccer_north_macedonia_first_league",
	"soccer_montenegro_first_league",
	"soccer_bosnia_premier_league",
	"soccer_kosovo_superliga",
	"soccer_moldova_super_liga",
	"soccer_georgia_erovnuli_liga",
	"soccer_armenia_premier_league",
	"soccer_azerbaijan_premier_league",
	"soccer_kazakhstan_premier_league",
	"soccer_uzbekistan_super_league",
	"soccer_kyrgyzstan_top_league",
	"soccer_tajikistan_higher_league",
	"soccer_turkmenistan_yokary_liga",
	"soccer_afghanistan_premier_league",
	"soccer_bangladesh_premier_league",
	"soccer_bhutan_premier_league",
	"soccer_cambodia_premier_league",
	"soccer_laos_premier_league",
	"soccer_myanmar_national_league",
	"soccer_nepal_super_league",
	"soccer_sri_lanka_premier_league",
	"soccer_maldives_premier_league",
	"soccer_pakistan_premier_league",

	// Friendlies and qualifiers
	"soccer_friendlies",
	"soccer_friendlies_clubs",
	"soccer_friendlies_womens",
	"soccer_youth_league",
	"soccer_europa_league_qualifying",
	"soccer_champions_league_qualifying",
	"soccer_conference_league_qualifying",
}

// All returns a copy of the known competition identifiers in their canonical order.
func All() []string {
	out := make([]string, len(all))
	copy(out, all)
	return out
}
