package papers

// Paper is one entry of the built-in sample catalog.
type Paper struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Year     int      `json:"year"`
	DOI      string   `json:"doi"`
	Abstract string   `json:"abstract"`
	Keywords []string `json:"keywords"`
}

var catalog = []Paper{
	{
		Title:    "Effects of Microgravity on Plant Cell Wall Synthesis",
		Authors:  []string{"Johnson, M.K.", "Smith, A.L.", "Brown, R.T."},
		Year:     2023,
		DOI:      "10.1016/j.spaceres.2023.001",
		Abstract: "This study investigates how microgravity conditions affect the synthesis of plant cell walls...",
		Keywords: []string{"microgravity", "plant", "cell wall", "synthesis"},
	},
	{
		Title:    "DNA Repair Mechanisms in Space Radiation Environment",
		Authors:  []string{"Chen, L.", "Williams, P.D.", "Davis, K.M."},
		Year:     2022,
		DOI:      "10.1038/s41526-022-0234-1",
		Abstract: "Space radiation poses significant challenges to DNA integrity. This research examines...",
		Keywords: []string{"DNA", "repair", "radiation", "space"},
	},
	{
		Title:    "Bone Density Changes in Long-Duration Spaceflight",
		Authors:  []string{"Anderson, J.R.", "Thompson, S.A.", "Miller, C.L."},
		Year:     2023,
		DOI:      "10.1007/s00223-023-1089-4",
		Abstract: "Long-duration spaceflight results in significant bone density loss...",
		Keywords: []string{"bone", "density", "spaceflight", "astronaut"},
	},
	{
		Title:    "Protein Crystallization in Microgravity Conditions",
		Authors:  []string{"Garcia, M.E.", "Wilson, D.K.", "Taylor, B.J."},
		Year:     2021,
		DOI:      "10.1107/S2059798321009834",
		Abstract: "Microgravity provides unique conditions for protein crystallization...",
		Keywords: []string{"protein", "crystallization", "microgravity"},
	},
	{
		Title:    "Cardiovascular Adaptations to Zero Gravity",
		Authors:  []string{"Lee, H.S.", "Martinez, R.C.", "Jackson, T.M."},
		Year:     2022,
		DOI:      "10.1152/japplphysiol.00456.2022",
		Abstract: "The cardiovascular system undergoes significant adaptations in zero gravity...",
		Keywords: []string{"cardiovascular", "zero gravity", "adaptation"},
	},
	{
		Title:    "Yeast Gene Expression Under Simulated Mars Conditions",
		Authors:  []string{"Patel, N.K.", "Robinson, A.F.", "White, L.G."},
		Year:     2023,
		DOI:      "10.1089/ast.2023.0045",
		Abstract: "This study examines how yeast gene expression changes under Mars-like conditions...",
		Keywords: []string{"yeast", "gene expression", "mars", "conditions"},
	},
	{
		Title:    "Immune System Response to Extended Space Travel",
		Authors:  []string{"Kumar, S.R.", "Adams, M.J.", "Clark, P.L."},
		Year:     2022,
		DOI:      "10.3389/fimmu.2022.987654",
		Abstract: "Extended space travel significantly impacts immune system function...",
		Keywords: []string{"immune", "system", "space travel", "extended"},
	},
	{
		Title:    "Muscle Atrophy Prevention Strategies in Microgravity",
		Authors:  []string{"Brooks, K.A.", "Evans, D.R.", "Moore, J.S."},
		Year:     2023,
		DOI:      "10.1113/JP284567",
		Abstract: "Muscle atrophy is a major concern in microgravity environments...",
		Keywords: []string{"muscle", "atrophy", "prevention", "microgravity"},
	},
}
