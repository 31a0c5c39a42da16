package dataset

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrMalformed is returned when a recordset document is not a JSON object.
var ErrMalformed = errors.New("malformed recordset")

// ParseCompanyRecordset decodes the company frequency document. Record and
// company order follow the document.
func ParseCompanyRecordset(data []byte) (*CompanyRecordset, error) {
	root, err := parseObject(data)
	if err != nil {
		return nil, fmt.Errorf("companies: %w", err)
	}

	set := &CompanyRecordset{
		index: make(map[string]int),
		raw:   data,
	}
	root.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		rec := CompanyRecord{ID: id}
		if value.IsObject() {
			rec.Title = stringField(value.Get("title"))
			if companies := value.Get("companies"); companies.IsObject() {
				rec.HasCompanies = true
				companies.ForEach(func(name, stats gjson.Result) bool {
					rec.Companies = append(rec.Companies, CompanyEntry{
						Key:   name.String(),
						Stats: parseStats(stats),
					})
					return true
				})
			}
		}
		set.add(rec)
		return true
	})
	return set, nil
}

// ParseProblemRecordset decodes the problem metadata document.
func ParseProblemRecordset(data []byte) (*ProblemRecordset, error) {
	root, err := parseObject(data)
	if err != nil {
		return nil, fmt.Errorf("problems: %w", err)
	}

	set := &ProblemRecordset{
		index: make(map[string]int),
		raw:   data,
	}
	root.ForEach(func(key, value gjson.Result) bool {
		rec := ProblemRecord{ID: key.String()}
		if value.IsObject() {
			rec.Name = stringField(value.Get("name"))
			rec.DisplayText = stringField(value.Get("displayText"))
		}
		set.add(rec)
		return true
	})
	return set, nil
}

// add keeps the first occurrence of a duplicated id in place and lets the
// later value win, mirroring how a JSON object decodes.
func (r *CompanyRecordset) add(rec CompanyRecord) {
	if i, ok := r.index[rec.ID]; ok {
		r.records[i] = rec
		return
	}
	r.index[rec.ID] = len(r.records)
	r.records = append(r.records, rec)
}

func (r *ProblemRecordset) add(rec ProblemRecord) {
	if i, ok := r.index[rec.ID]; ok {
		r.records[i] = rec
		return
	}
	r.index[rec.ID] = len(r.records)
	r.records = append(r.records, rec)
}

func parseObject(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: expected object, got %s", ErrMalformed, root.Type)
	}
	return root, nil
}

func parseStats(v gjson.Result) FrequencyStats {
	if !v.IsObject() {
		return FrequencyStats{}
	}
	return FrequencyStats{
		AllTime:   stringField(v.Get(WindowAllTime)),
		SixMonths: stringField(v.Get(WindowSixMonths)),
		OneYear:   stringField(v.Get(WindowOneYear)),
		TwoYear:   stringField(v.Get(WindowTwoYear)),
	}
}

// stringField returns strings and numbers as text. Anything else is absent.
func stringField(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}
