// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package morphology

// Curated exception tables. They are consulted before the suffix rules and
// always win over them.

// irregularFirst maps oblique or variant spellings straight to a nominative.
var irregularFirst = map[string]string{
	"roberta": "robert", "robertem": "robert", "robertovi": "robert",
	"radku": "radek", "radkem": "radek", "radkovi": "radek", "radko": "radek",
	"marka": "marek", "marku": "marek", "markem": "marek", "markovi": "marek",
	"karla": "karel", "karlu": "karel", "karlem": "karel", "karlovi": "karel", "karle": "karel",
	"pavlovi": "pavel", "pavlem": "pavel", "pavle": "pavel",
	"zdeňka": "zdeněk", "zdeňkem": "zdeněk", "zdeňkovi": "zdeněk", "zdeňku": "zdeněk",
	"čeňka": "čeněk", "čeňkem": "čeněk", "čeňkovi": "čeněk",
	"otty": "otto", "ottovi": "otto", "ottem": "otto",
	"huga": "hugo", "hugovi": "hugo", "hugem": "hugo",
	"hany": "hana", "haně": "hana", "hanou": "hana", "hanu": "hana",
	"reneho": "rené", "renému": "rené", "reném": "rené", "renem": "rené",
	"jiřího": "jiří", "jiřímu": "jiří", "jiřím": "jiří",
	"alica": "alice", "lucia": "lucie",
}

// dativeFirst covers feminine dative/locative forms with a changed stem
var dativeFirst = map[string]string{
	"adéle": "adéla", "michaele": "michaela", "gabriele": "gabriela",
	"daniele": "daniela", "marcele": "marcela", "pavle": "pavla",
	"petře": "petra", "kláře": "klára", "věře": "věra", "barboře": "barbora",
	"tereze": "tereza", "lence": "lenka", "jitce": "jitka", "monice": "monika",
	"veronice": "veronika", "šárce": "šárka", "anežce": "anežka", "blance": "blanka",
	"elišce": "eliška", "dominice": "dominika", "markétě": "markéta", "martě": "marta",
	"lucii": "lucie", "lucií": "lucie", "marii": "marie", "marií": "marie",
	"julii": "julie", "julií": "julie", "natálii": "natálie", "natálií": "natálie",
}

// alwaysFeminine names are read as feminine nominatives when no other
// evidence is available, even though a masculine genitive reading exists.
var alwaysFeminine = newSet(
	"jana", "petra", "pavla", "martina", "simona", "daniela", "gabriela",
	"michaela", "marcela", "kamila", "radka", "stanislava", "jaroslava",
	"miroslava", "vladimíra", "drahomíra", "dušana", "romana", "adriana",
	"bohdana", "milena", "ivana", "renata", "viktorie", "alexandra", "samuela",
	"lea", "nikola", "zdeňka", "františka", "ludmila", "jarmila",
)

// maleFirstWithA lists masculine first names ending in -a
var maleFirstWithA = newSet(
	"kuba", "honza", "jirka", "saša", "míla", "nikita", "luca", "joshua",
	"ilja", "jura", "mojža", "sláva", "standa", "franta", "pepa", "vojta",
)

// commonMale names whose feminine counterpart is base+a; used to prefer the
// masculine reading of "base+a" when the bare base is also a known name.
var commonMale = newSet(
	"petr", "jan", "pavel", "martin", "tomáš", "jiří", "josef", "david",
	"jakub", "lukáš", "marek", "michal", "karel", "filip", "daniel", "adam",
	"ondřej", "václav", "roman", "robert", "milan", "vladimír", "zdeněk",
	"aleš", "libor", "igor", "oskar", "viktor",
)

// explicitO are masculine names in -o whose stem would otherwise be misread
var explicitO = map[string]string{
	"marc": "marco", "hug": "hugo", "dieg": "diego", "brun": "bruno",
	"albert": "alberto", "ott": "otto",
}

// truncatedFirst are stems left after stripping a vowel from -el/-ek names
var truncatedFirst = map[string]string{
	"pavl": "pavel", "karl": "karel", "radk": "radek", "mark": "marek",
	"zdeňk": "zdeněk", "čeňk": "čeněk", "hynk": "hynek", "luďk": "luděk",
	"zbyňk": "zbyněk", "havl": "havel", "daniel": "daniel",
}

// emVlozneE are instrumental stems (-em) that drop the inserted vowel
var emVlozneE = map[string]string{
	"pavl": "pavel", "karl": "karel", "radk": "radek", "mark": "marek",
	"hynk": "hynek", "zdeňk": "zdeněk", "luďk": "luděk", "zbyňk": "zbyněk",
}

// femaleFirstPatterns are endings typical of feminine nominatives in -a
var femaleFirstPatterns = []string{
	"ina", "ína", "ela", "éla", "ka", "ra", "ta", "da", "na", "la", "ie", "ice",
}

// maleStemEndings are endings typical of masculine nominatives
var maleStemEndings = []string{
	"el", "ek", "ec", "an", "án", "ín", "ir", "ír", "or", "av", "oš", "aš", "áš",
	"eš", "ěj", "ej", "ip", "ub", "im", "ím", "id", "in", "il", "tr", "os", "us",
	"uš", "ch", "rt", "ef", "of", "lf", "am", "ar", "ij", "ál", "ír", "os",
}

// Surnames

// maleSurnamesWithA are masculine surnames ending in -a (a-declension)
var maleSurnamesWithA = newSet(
	"svoboda", "skála", "hora", "kučera", "zíka", "zima", "procházka", "holda",
	"sýkora", "kafka", "liška", "vrba", "kopta", "kuba", "šebesta", "janda",
	"vlna", "mrkvička", "straka", "bárta", "klíma", "koza", "chalupa", "marha",
	"neruda", "kolda", "plecha", "brada", "ryba", "fiala", "říha", "šíma",
	"žila", "bláha", "vacula", "nedoma", "pešta", "hála", "rybka", "vávra",
	"mácha", "koula", "hrouda", "kubala", "doubrava", "matocha",
)

// consonantSurnames are consonant-final nominatives that must not be read
// as a clipped -a surname
var consonantSurnames = newSet(
	"kratochvíl", "havel", "král", "michal", "vokál", "kubát",
)

// animalPlantSurnames are kept as-is in every position where they look
// like a feminine noun
var animalPlantSurnames = newSet(
	"liška", "vrba", "straka", "koza", "ryba", "sýkora", "vrána", "kavka",
	"holub", "zajíc", "jelen", "bažant", "lípa", "jedlička", "lilie",
)

// surnameVlozneE are surname stems with an inserted e (Havl-a -> Havel)
var surnameVlozneE = newSet("havl", "pavl", "orl", "kozl", "sedl")

// kaInsertE are stems before -ka that restore an -ek nominative
var kaInsertE = []string{"hav", "pav", "sed", "koz", "peš", "pes", "vojt", "maš", "hájíč", "hron", "rad"}

// typicalSurnameA are endings of surnames that are nominative with final -a
var typicalSurnameA = []string{
	"ka", "la", "ra", "na", "da", "ta", "ba", "pa", "va", "ma", "ha", "cha", "ša", "ža", "ča",
}

