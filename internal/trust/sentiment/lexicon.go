package sentiment

// polarity is the word list backing the scorer. Values follow the AFINN
// valence scale (-5..+5), trimmed to vocabulary that actually shows up in
// recruiter feedback, plus a handful of recruiting-specific terms at the end.
var polarity = map[string]int{
	"amazing":        4,
	"awesome":        4,
	"excellent":      3,
	"fantastic":      4,
	"outstanding":    5,
	"superb":         5,
	"wonderful":      4,
	"great":          3,
	"good":           3,
	"nice":           3,
	"best":           3,
	"better":         2,
	"helpful":        2,
	"helped":         2,
	"helps":          2,
	"impressed":      3,
	"impressive":     3,
	"recommend":      2,
	"recommended":    2,
	"responsive":     2,
	"reliable":       2,
	"professional":   2,
	"courteous":      2,
	"friendly":       2,
	"polite":         2,
	"honest":         2,
	"transparent":    2,
	"clear":          1,
	"prompt":         1,
	"quick":          1,
	"fast":           1,
	"smooth":         1,
	"easy":           1,
	"thanks":         2,
	"thank":          2,
	"thankful":       2,
	"grateful":       3,
	"appreciate":     2,
	"appreciated":    2,
	"pleasant":       3,
	"pleased":        3,
	"happy":          3,
	"glad":           3,
	"love":           3,
	"loved":          3,
	"like":           2,
	"liked":          2,
	"perfect":        3,
	"positive":       2,
	"supportive":     2,
	"genuine":        2,
	"trustworthy":    2,
	"fair":           2,
	"respectful":     2,
	"accurate":       1,
	"insightful":     2,
	"knowledgeable":  2,

	"bad":            -3,
	"worst":          -3,
	"worse":          -3,
	"terrible":       -3,
	"horrible":       -3,
	"awful":          -3,
	"poor":           -2,
	"disappointing":  -2,
	"disappointed":   -2,
	"frustrating":    -2,
	"frustrated":     -2,
	"annoying":       -2,
	"annoyed":        -2,
	"rude":           -2,
	"unprofessional": -2,
	"dishonest":      -2,
	"liar":           -3,
	"lies":           -2,
	"lied":           -2,
	"lying":          -2,
	"fake":           -3,
	"fraud":          -4,
	"fraudulent":     -4,
	"scam":           -2,
	"scammer":        -2,
	"spam":           -2,
	"suspicious":     -2,
	"shady":          -3,
	"sketchy":        -2,
	"misleading":     -2,
	"deceptive":      -3,
	"waste":          -1,
	"wasted":         -2,
	"useless":        -2,
	"ignore":         -1,
	"ignored":        -2,
	"slow":           -1,
	"late":           -1,
	"never":          -1,
	"avoid":          -1,
	"warning":        -3,
	"warn":           -2,
	"angry":          -3,
	"upset":          -2,
	"sad":            -2,
	"hate":           -3,
	"hated":          -3,
	"pressure":       -1,
	"pressured":      -2,
	"pushy":          -2,
	"aggressive":     -2,
	"threatening":    -3,
	"threatened":     -2,
	"blocked":        -1,
	"refused":        -2,
	"rejected":       -1,
	"unresponsive":   -2,
	"unreliable":     -2,
	"untrustworthy":  -3,
	"insulting":      -2,
	"insulted":       -2,
	"disrespectful":  -2,

	// Recruiting-specific vocabulary absent from the base valence list.
	"ghosted":  -2,
	"ghosting": -2,
	"ghost":    -1,
	"lowball":  -2,
	"bait":     -2,
}
