package toml

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestArrayOfTables(t *testing.T) {
	convey.Convey("array of tables", t, func() {
		src := `
[[products]]
name = "Hammer"
sku = 738594937

[[products]]
name = "Nails"
sku = 284758393
count = 100

[products.stock]
warehouse = "east"
`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		n, ok := Get(root, "products")
		convey.So(ok, convey.ShouldBeTrue)
		arr := n.(*Array)
		convey.So(len(arr.Elems), convey.ShouldEqual, 2)
		first := arr.Elems[0].(*Table)
		name, _ := first.Lookup("name")
		convey.So(MustString(name), convey.ShouldEqual, "Hammer")

		second := arr.Elems[1].(*Table)
		convey.So(second.Keys(), convey.ShouldResemble, []string{"name", "sku", "count", "stock"})
		warehouse, ok := Get(second, "stock", "warehouse")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(MustString(warehouse), convey.ShouldEqual, "east")
	})
}

func TestInlineTable(t *testing.T) {
	convey.Convey("inline table", t, func() {
		src := `owner = { name = "Tom", dob = 1979-05-27T07:32:00Z }`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		n, ok := Get(root, "owner")
		convey.So(ok, convey.ShouldBeTrue)
		tbl := n.(*Table)
		name, _ := tbl.Lookup("name")
		convey.So(MustString(name), convey.ShouldEqual, "Tom")
		dob, _ := tbl.Lookup("dob")
		convey.So(dob.Kind(), convey.ShouldEqual, tomlValueKinds.ValueDatetime)
		convey.So(dob.(*Value).Text, convey.ShouldEqual, "1979-05-27T07:32:00Z")
	})
}

func TestMultilineBasicString(t *testing.T) {
	convey.Convey("multiline basic string", t, func() {
		src := `desc = """first
second
third"""
joined = """\
    one \
    two"""
`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		n, ok := Get(root, "desc")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(MustString(n), convey.ShouldEqual, "first\nsecond\nthird")
		j, _ := Get(root, "joined")
		convey.So(MustString(j), convey.ShouldEqual, "one two")
	})
}

func TestQuotedKeys(t *testing.T) {
	convey.Convey("quoted keys", t, func() {
		src := `"a.b" = 1
a.c = 2
'lit # key' = "x # not a comment" # comment`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		n, ok := Get(root, "a.b")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(MustInt(n), convey.ShouldEqual, 1)
		n2, ok2 := Get(root, "a", "c")
		convey.So(ok2, convey.ShouldBeTrue)
		convey.So(MustInt(n2), convey.ShouldEqual, 2)
		n3, ok3 := Get(root, "lit # key")
		convey.So(ok3, convey.ShouldBeTrue)
		convey.So(MustString(n3), convey.ShouldEqual, "x # not a comment")
	})
}

func TestSpecialFloatsAndInts(t *testing.T) {
	convey.Convey("floats and ints with underscores and bases", t, func() {
		src := `
f1 = +inf
f2 = -inf
f3 = nan
f4 = 6.626e-34
i1 = 1_000
hex = 0xDEADBEEF
oct = 0o755
bin = 0b1010
`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		f1, _ := Get(root, "f1")
		convey.So(f1.(*Value).V.(float64), convey.ShouldEqual, math.Inf(+1))
		f2, _ := Get(root, "f2")
		convey.So(f2.(*Value).V.(float64), convey.ShouldEqual, math.Inf(-1))
		f3, _ := Get(root, "f3")
		convey.So(math.IsNaN(f3.(*Value).V.(float64)), convey.ShouldBeTrue)
		f4, _ := Get(root, "f4")
		convey.So(f4.(*Value).Text, convey.ShouldEqual, "6.626e-34")
		i1, _ := Get(root, "i1")
		convey.So(MustInt(i1), convey.ShouldEqual, 1000)
		hex, _ := Get(root, "hex")
		convey.So(MustInt(hex), convey.ShouldEqual, 0xDEADBEEF)
		oct, _ := Get(root, "oct")
		convey.So(MustInt(oct), convey.ShouldEqual, 0755)
		bin, _ := Get(root, "bin")
		convey.So(MustInt(bin), convey.ShouldEqual, 10)
	})
}

func TestMultilineArrayAndTrailingComma(t *testing.T) {
	convey.Convey("multiline array with trailing comma", t, func() {
		src := `
ports = [
  8001, # first
  8002, # ] in a comment
]
mixed = [1, "two"]
`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		n, ok := GetUntyped(root, "ports")
		convey.So(ok, convey.ShouldBeTrue)
		arr := n.([]any)
		convey.So(len(arr), convey.ShouldEqual, 2)
		convey.So(arr[0], convey.ShouldEqual, int64(8001))
		convey.So(arr[1], convey.ShouldEqual, int64(8002))

		mixed, ok := GetUntyped(root, "mixed")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(mixed, convey.ShouldResemble, []any{int64(1), "two"})
	})
}

func TestKeyOrder(t *testing.T) {
	convey.Convey("tables keep source order", t, func() {
		src := `
zeta = 1
alpha = 2
[mid]
b = 1
a = 2
`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		convey.So(root.Keys(), convey.ShouldResemble, []string{"zeta", "alpha", "mid"})
		mid, _ := Get(root, "mid")
		convey.So(mid.(*Table).Keys(), convey.ShouldResemble, []string{"b", "a"})
	})
}

func TestParseErrorPosition(t *testing.T) {
	convey.Convey("errors name the line and statement column", t, func() {
		cases := map[string][2]int{
			"a = 1\n  a = 2":          {2, 3},
			"a = 1\nb":                {2, 1},
			"x = 1\n[x.y]":            {2, 1},
			"s = \"open":              {1, 1},
			"a = [\n1,\n2\n":          {3, 1},
			"[[t]]\n[[t]]\n  v = tru": {3, 3},
		}
		for src, pos := range cases {
			_, err := Parse(strings.NewReader(src))
			var pe *ParseError
			convey.So(errors.As(err, &pe), convey.ShouldBeTrue)
			convey.So(pe.Line, convey.ShouldEqual, pos[0])
			convey.So(pe.Column, convey.ShouldEqual, pos[1])
		}
	})
}
