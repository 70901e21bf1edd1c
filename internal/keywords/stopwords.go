package keywords

// punctuation lists every character removed from keyword text before stop
// words are stripped. Removal joins the surrounding characters, so "node.js"
// becomes "nodejs".
var punctuation = []string{
	".", ",", ";", ":", "!", "?", "¡", "¿",
	"(", ")", "[", "]", "{", "}", "<", ">",
	"\"", "'", "`", "´", "‘", "’", "“", "”", "«", "»", "„",
	"/", "\\", "|", "*", "&", "^", "%", "$", "#", "@", "~", "=", "+",
	"-", "_", "–", "—", "…", "•", "§", "°",
}

// englishStopWords are English function words.
var englishStopWords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does", "doing",
	"down", "during", "each", "either", "else", "ever", "every", "few", "for", "from",
	"further", "had", "has", "have", "having", "he", "her", "here", "hers", "herself",
	"him", "himself", "his", "how", "however", "i", "if", "in", "into", "is",
	"it", "its", "itself", "just", "may", "me", "might", "more", "most", "must",
	"my", "myself", "neither", "no", "nor", "not", "now", "of", "off", "on",
	"once", "only", "or", "other", "ought", "our", "ours", "ourselves", "out", "over",
	"own", "same", "shall", "she", "should", "so", "some", "such", "than", "that",
	"the", "their", "theirs", "them", "themselves", "then", "there", "these", "they", "this",
	"those", "though", "through", "thus", "to", "too", "under", "until", "up", "upon",
	"us", "very", "was", "we", "were", "what", "whatever", "when", "where", "whether",
	"which", "while", "who", "whom", "whose", "why", "will", "with", "within", "without",
	"would", "yet", "you", "your", "yours", "yourself", "yourselves",
}

// finnishStopWords are Finnish function words, including the common
// inflected forms of pronouns and the negation verb.
var finnishStopWords = []string{
	"aina", "ja", "jo", "joka", "jonka", "joiden", "joita", "jossa", "josta", "johon",
	"jolla", "jolle", "jolta", "jota", "jotka", "jos", "kanssa", "kuin", "kun", "kuka",
	"ketkä", "mikä", "mitkä", "mitä", "miksi", "miten", "missä", "mistä", "mihin", "milloin",
	"minä", "minun", "minua", "minulla", "minulle", "minusta", "sinä", "sinun", "sinua", "sinulla",
	"hän", "hänen", "häntä", "hänellä", "hänelle", "hänestä", "me", "meidän", "meitä", "meillä",
	"te", "teidän", "teitä", "teillä", "he", "heidän", "heitä", "heillä", "heille", "heistä",
	"se", "sen", "sitä", "siinä", "siitä", "siihen", "sillä", "sille", "siltä", "ne",
	"niiden", "niitä", "niissä", "niistä", "niihin", "niillä", "tämä", "tämän", "tätä", "tässä",
	"tästä", "tähän", "tällä", "tälle", "nämä", "näiden", "näitä", "tuo", "tuon", "tuota",
	"nuo", "on", "ovat", "oli", "olivat", "olla", "ollut", "olleet", "olen", "olet",
	"olemme", "olette", "olisi", "olisivat", "ole", "ei", "en", "et", "emme", "ette",
	"eivät", "eikä", "että", "mutta", "tai", "sekä", "vai", "vaan", "koska", "vaikka",
	"myös", "vain", "nyt", "niin", "kuten", "ennen", "jälkeen", "aikana", "ilman",
	"mukaan", "kautta", "yli", "alle", "paitsi", "kohti", "luona", "välillä", "hyvin", "paljon",
}
