// Package advice maps plant names to static care tips and fun facts.
package advice

import "strings"

type entry struct {
	keyword string
	text    string
}

// Both tables are scanned in order and the first keyword contained in the
// name wins, so "basil tomato" gets the basil text.
var careTips = []entry{
	{"basil", "Basil likes bright light (6–8 hours sun), warm temps, and evenly moist soil. Water when the top inch of soil feels dry—avoid waterlogging."},
	{"oregano", "Oregano likes full sun and well-draining soil. Water when the top inch or two is dry; it tolerates drought better than soggy soil once established."},
	{"succulent", "Succulents prefer bright light and infrequent deep watering. Let soil dry out completely between waterings; overwatering is the #1 issue."},
	{"tomato", "Tomatoes love full sun and consistent moisture. Water deeply at the base when the top 1–2 inches are dry; avoid wetting leaves to reduce disease."},
	{"pothos", "Pothos prefers bright, indirect light but tolerates low light. Water when the top 1–2 inches are dry; it’s better to underwater slightly than overwater."},
}

var funFacts = []entry{
	{"basil", "Fun fact: Basil’s aroma comes from essential oils that plants use to deter pests—bruising the leaves releases more of that scent."},
	{"oregano", "Fun fact: Oregano is in the mint family—many herbs in this family have strong oils that make them aromatic and pest-resistant."},
	{"succulent", "Fun fact: Many succulents store water in leaves or stems, which is why they can survive long dry spells."},
	{"tomato", "Fun fact: Botanically, tomatoes are berries—but in cooking they’re treated like vegetables."},
	{"pothos", "Fun fact: Pothos is nicknamed “devil’s ivy” because it’s famously hard to kill and grows in a wide range of conditions."},
}

const (
	genericCareTip = "General care: give bright indirect light or sun depending on the plant, keep temps moderate, and water when the top inch of soil is dry. Adjust based on wilting vs soggy soil."
	genericFunFact = "Fun fact: Plants bend toward light (phototropism) by redistributing growth hormones so stems and leaves grow more on one side than the other."
)

// Kinds of advisory text.
const (
	KindCare = "care"
	KindFact = "fact"
)

// CareTip returns care advice for a plant name.
func CareTip(name string) string {
	return lookup(careTips, name, genericCareTip)
}

// FunFact returns a fun fact for a plant name.
func FunFact(name string) string {
	return lookup(funFacts, name, genericFunFact)
}

// For returns the text of the given kind, or "" for an unknown kind.
func For(kind, name string) string {
	switch kind {
	case KindCare:
		return CareTip(name)
	case KindFact:
		return FunFact(name)
	default:
		return ""
	}
}

func lookup(table []entry, name, fallback string) string {
	name = strings.ToLower(name)
	for _, e := range table {
		if strings.Contains(name, e.keyword) {
			return e.text
		}
	}
	return fallback
}
