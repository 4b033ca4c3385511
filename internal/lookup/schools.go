package lookup

import "strings"

// schoolsByDomain maps academic email domains to display names.
var schoolsByDomain = map[string]string{
	"snu.ac.kr":       "Seoul National University",
	"yonsei.ac.kr":    "Yonsei University",
	"korea.ac.kr":     "Korea University",
	"kaist.ac.kr":     "KAIST",
	"postech.ac.kr":   "POSTECH",
	"skku.edu":        "Sungkyunkwan University",
	"g.skku.edu":      "Sungkyunkwan University",
	"hanyang.ac.kr":   "Hanyang University",
	"sogang.ac.kr":    "Sogang University",
	"ewhain.net":      "Ewha Womans University",
	"ewha.ac.kr":      "Ewha Womans University",
	"cau.ac.kr":       "Chung-Ang University",
	"khu.ac.kr":       "Kyung Hee University",
	"hufs.ac.kr":      "Hankuk University of Foreign Studies",
	"uos.ac.kr":       "University of Seoul",
	"konkuk.ac.kr":    "Konkuk University",
	"dongguk.edu":     "Dongguk University",
	"hongik.ac.kr":    "Hongik University",
	"sookmyung.ac.kr": "Sookmyung Women's University",
	"sejong.ac.kr":    "Sejong University",
	"kookmin.ac.kr":   "Kookmin University",
	"ssu.ac.kr":       "Soongsil University",
	"inha.edu":        "Inha University",
	"pusan.ac.kr":     "Pusan National University",
}

// SchoolByDomain returns the known school for an email domain.
func SchoolByDomain(domain string) (string, bool) {
	name, ok := schoolsByDomain[strings.ToLower(strings.TrimSpace(domain))]
	return name, ok
}
