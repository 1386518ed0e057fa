// Package electowidget extracts ballot counts from an Electowidget data block
// published inside a wiki page. The page holds a single <pre> element whose
// text is the body of a JSON object without its enclosing braces. Its
// inline_ballots list gives rating maps (higher is more preferred) with a
// repeat count.
package electowidget

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/ranking"
)

const sourceName = "electowidget"

// Record is one inline ballot entry: a rating map repeated Qty times.
type Record struct {
	Ratings map[ranking.Candidate]int `json:"vote" yaml:"vote"`
	Qty     int                       `json:"qty" yaml:"qty"`
	Ranking ranking.Ranking           `json:"ranking" yaml:"ranking"`
}

// Document is the decoded data block.
type Document struct {
	Records      []Record
	Distribution ranking.Distribution
}

// Parse extracts and decodes the data block from an HTML page.
func Parse(page []byte) (*Document, error) {
	body, err := PreformattedText(page)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}

// PreformattedText returns the text of the only <pre> element in page.
func PreformattedText(page []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", errors.WrapParse("html", "", err)
	}

	var blocks []*html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "pre" {
			blocks = append(blocks, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)

	if len(blocks) != 1 {
		return "", errors.NewAssumptionError(sourceName, errors.KindFormat,
			"expected one preformatted section, found "+strconv.Itoa(len(blocks)), "")
	}
	return textContent(blocks[0]), nil
}

// textContent concatenates every text node below n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// Decode wraps body in braces, decodes it and converts every inline ballot
// to a canonical ranking. Records that yield the same ranking are summed.
// Field names must match exactly.
func Decode(body string) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte("{"+body+"}"), &top); err != nil {
		return nil, errors.NewAssumptionError(sourceName, errors.KindFormat,
			"expected the data block to be a JSON object body: "+err.Error(), "")
	}
	raw, ok := top["inline_ballots"]
	if !ok {
		return nil, errors.NewAssumptionError(sourceName, errors.KindFormat, "missing field inline_ballots", "")
	}
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.NewAssumptionError(sourceName, errors.KindFormat,
			"invalid field inline_ballots: "+err.Error(), "")
	}
	if entries == nil {
		return nil, errors.NewAssumptionError(sourceName, errors.KindFormat, "missing field inline_ballots", "")
	}

	doc := &Document{Records: make([]Record, 0, len(entries))}
	var counter ranking.Counter
	for i, fields := range entries {
		rec, err := decodeRecord(fields, i)
		if err != nil {
			return nil, err
		}
		counter.Add(rec.Ranking, rec.Qty)
		doc.Records = append(doc.Records, rec)
	}
	doc.Distribution = counter.Distribution()
	return doc, nil
}

// decodeRecord validates one inline ballot entry and builds its ranking.
func decodeRecord(fields map[string]json.RawMessage, index int) (Record, error) {
	where := "inline_ballots[" + strconv.Itoa(index) + "]"

	var vote map[string]int
	if err := decodeField(fields, "vote", &vote, where); err != nil {
		return Record{}, err
	}
	if vote == nil {
		return Record{}, errors.NewAssumptionError(sourceName, errors.KindFormat, "missing field vote", where)
	}
	var qty *int
	if err := decodeField(fields, "qty", &qty, where); err != nil {
		return Record{}, err
	}
	if qty == nil {
		return Record{}, errors.NewAssumptionError(sourceName, errors.KindFormat, "missing field qty", where)
	}
	if *qty < 0 {
		return Record{}, errors.NewAssumptionError(sourceName, errors.KindFormat,
			"negative qty "+strconv.Itoa(*qty), where)
	}

	ratings := make(map[ranking.Candidate]int, len(vote))
	for name, rating := range vote {
		ratings[ranking.Candidate(name)] = rating
	}
	return Record{
		Ratings: ratings,
		Qty:     *qty,
		Ranking: ranking.FromRatings(ratings),
	}, nil
}

// decodeField unmarshals fields[name] into dst, failing when the key is absent.
func decodeField(fields map[string]json.RawMessage, name string, dst any, where string) error {
	raw, ok := fields[name]
	if !ok {
		return errors.NewAssumptionError(sourceName, errors.KindFormat, "missing field "+name, where)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.NewAssumptionError(sourceName, errors.KindFormat,
			"invalid field "+name+": "+err.Error(), where)
	}
	return nil
}

// Candidates returns every candidate name that appears in any record.
func (d *Document) Candidates() []ranking.Candidate {
	seen := make(map[ranking.Candidate]struct{})
	var out []ranking.Candidate
	for _, r := range d.Records {
		for c := range r.Ratings {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	}
	return out
}
