package appwrite

import "encoding/json"

type query struct {
	Method    string        `json:"method"`
	Attribute string        `json:"attribute,omitempty"`
	Values    []interface{} `json:"values,omitempty"`
}

func (q query) String() string {
	b, _ := json.Marshal(q)
	return string(b)
}

// Equal 属性等于 value
func Equal(attribute string, value interface{}) string {
	return query{Method: "equal", Attribute: attribute, Values: []interface{}{value}}.String()
}

// OrderDesc 按属性倒序
func OrderDesc(attribute string) string {
	return query{Method: "orderDesc", Attribute: attribute}.String()
}

// OrderAsc 按属性正序
func OrderAsc(attribute string) string {
	return query{Method: "orderAsc", Attribute: attribute}.String()
}

// Limit 限制返回条数
func Limit(n int) string {
	return query{Method: "limit", Values: []interface{}{n}}.String()
}
