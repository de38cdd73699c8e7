package morph

// rule maps a word ending to a tag. The normal form is the stem (word minus
// suffix) plus normal, or the word itself when keep is set.
type rule struct {
	suffix string
	pos    POS
	normal string
	keep   bool
	guard  bool // applies to any stem length
}

func endings(pos POS, normal string, suffixes ...string) []rule {
	rs := make([]rule, 0, len(suffixes))
	for _, s := range suffixes {
		rs = append(rs, rule{suffix: s, pos: pos, normal: normal})
	}
	return rs
}

func kept(pos POS, suffixes ...string) []rule {
	rs := make([]rule, 0, len(suffixes))
	for _, s := range suffixes {
		rs = append(rs, rule{suffix: s, pos: pos, keep: true})
	}
	return rs
}

var suffixRules = concat(
	// nouns that would otherwise read as infinitives: радость, новости
	[]rule{
		{suffix: "ость", pos: Noun, keep: true, guard: true},
		{suffix: "ости", pos: Noun, keep: true, guard: true},
	},

	// gerunds
	endings(Gerund, "ться", "вшись"),
	endings(Gerund, "ть", "вши"),
	endings(Gerund, "аться", "аясь"),
	endings(Gerund, "яться", "яясь"),

	// full participles
	endings(ParticipleFull, "ться", "ющийся", "ющаяся", "ющееся", "ющиеся"),
	endings(ParticipleFull, "ть", "ющий", "ющая", "ющее", "ющие", "ющего", "ющих", "ющим"),
	endings(ParticipleFull, "ить", "ящий", "ящая", "ящее", "ящие", "ящих"),
	endings(ParticipleFull, "ать", "ащий", "ащая", "ащее", "ащие", "ащих"),
	endings(ParticipleFull, "ть", "вший", "вшая", "вшее", "вшие", "вших"),
	endings(ParticipleFull, "ать", "анный", "анная", "анное", "анные"),
	endings(ParticipleFull, "ять", "янный", "янная", "янное", "янные"),
	endings(ParticipleFull, "ить", "енный", "енная", "енное", "енные"),
	endings(ParticipleFull, "ыть", "ытый", "ытая", "ытое", "ытые"),
	endings(ParticipleFull, "ить", "итый", "итая", "итое", "итые"),
	endings(ParticipleFull, "уть", "утый", "утая", "утое", "утые"),

	// short participles
	endings(ParticipleShort, "овать", "ован", "ована", "овано", "ованы"),
	endings(ParticipleShort, "ыть", "ыт", "ыта", "ыто", "ыты"),
	endings(ParticipleShort, "нуть", "нут", "нута", "нуто", "нуты"),

	// infinitives
	kept(Infinitive, "ться", "тись", "ть", "сти", "зти", "йти", "дти", "чь"),

	// past tense
	endings(Verb, "ться", "лся", "лась", "лось", "лись"),
	endings(Verb, "ать", "ал", "ала", "ало", "али"),
	endings(Verb, "ять", "ял", "яла", "яло", "яли"),
	endings(Verb, "ить", "ил", "ила", "ило", "или"),
	endings(Verb, "еть", "ел", "ела", "ело", "ели"),
	endings(Verb, "нуть", "нул", "нула", "нуло", "нули"),
	endings(Verb, "ыть", "ыл", "ыла", "ыло", "ыли"),

	// present and future tense
	endings(Verb, "аться", "ается", "аются", "аешься", "аемся", "аетесь"),
	endings(Verb, "яться", "яется", "яются"),
	endings(Verb, "оваться", "уется", "уются"),
	endings(Verb, "иться", "ится", "ятся", "ишься", "имся"),
	endings(Verb, "ать", "ает", "ают", "аешь", "аем", "аете", "аю"),
	endings(Verb, "ять", "яет", "яют", "яешь", "яем", "яете", "яю"),
	endings(Verb, "ировать", "ирую"),
	endings(Verb, "овать", "ует", "уют", "уешь", "уем", "уете"),
	endings(Verb, "еть", "еет", "еют", "еешь", "еем", "еете"),
	endings(Verb, "ить", "ит", "ишь", "ят", "ите"),

	// imperative plural
	endings(Verb, "ать", "айте"),
	endings(Verb, "ять", "яйте"),
	endings(Verb, "овать", "уйте"),
)

func concat(groups ...[]rule) []rule {
	var out []rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
