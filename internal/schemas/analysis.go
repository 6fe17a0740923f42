// Package schemas holds the canonical structure of a resume analysis. The same
// definition constrains Gemini at generation time and validates its output.
package schemas

const (
	ScoreMin = 0
	ScoreMax = 100
)

type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindInteger
)

// Node describes one value in the analysis document.
type Node struct {
	Kind        Kind
	Nullable    bool
	Description string
	Properties  []Property
	Items       *Node
	Minimum     *float64
	Maximum     *float64
}

// Property is a named member of an object node. Every property of an object is
// required to be present; optional values are expressed with Nullable.
type Property struct {
	Name string
	Node *Node
}

func object(props ...Property) *Node {
	return &Node{Kind: KindObject, Properties: props}
}

func prop(name string, n *Node) Property {
	return Property{Name: name, Node: n}
}

func str() *Node {
	return &Node{Kind: KindString}
}

func optionalStr() *Node {
	return &Node{Kind: KindString, Nullable: true}
}

func integer() *Node {
	return &Node{Kind: KindInteger}
}

func bounded(min, max float64) *Node {
	return &Node{Kind: KindInteger, Minimum: &min, Maximum: &max}
}

func arrayOf(items *Node) *Node {
	return &Node{Kind: KindArray, Items: items}
}

func describe(n *Node, description string) *Node {
	n.Description = description
	return n
}

// Analysis returns the definition of models.ResumeAnalysisResult.
func Analysis() *Node {
	contact := object(
		prop("email", optionalStr()),
		prop("phone", optionalStr()),
		prop("linkedin", optionalStr()),
	)

	experience := object(
		prop("company", str()),
		prop("title", str()),
		prop("start", optionalStr()),
		prop("end", optionalStr()),
		prop("bullets", arrayOf(str())),
	)

	education := object(
		prop("school", str()),
		prop("degree", str()),
		prop("year", optionalStr()),
	)

	project := object(
		prop("name", str()),
		prop("desc", str()),
	)

	parsed := object(
		prop("name", optionalStr()),
		prop("title", optionalStr()),
		prop("contact", contact),
		prop("summary", optionalStr()),
		prop("skills", arrayOf(str())),
		prop("experience", arrayOf(experience)),
		prop("education", arrayOf(education)),
		prop("projects", arrayOf(project)),
		prop("certifications", arrayOf(str())),
	)

	suggestion := object(
		prop("location", object(
			prop("section", describe(str(), "Resume section the suggestion targets, e.g. experience")),
			prop("index", describe(integer(), "Zero-based position of the record inside that section")),
		)),
		prop("suggested_bullets", arrayOf(str())),
	)

	jobFit := object(
		prop("jd_title", describe(optionalStr(), "Job title from the job description, null when none was supplied")),
		prop("match_score", bounded(ScoreMin, ScoreMax)),
		prop("gaps", arrayOf(str())),
		prop("recommendations", arrayOf(str())),
	)

	return object(
		prop("parsed", parsed),
		prop("score", describe(bounded(ScoreMin, ScoreMax), "Overall ATS compatibility score")),
		prop("high_level_advice", arrayOf(str())),
		prop("line_item_suggestions", arrayOf(suggestion)),
		prop("fit_for_job", jobFit),
	)
}
