package over

import (
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestFormatLayout(t *testing.T) {
	convey.Convey("top-level documents", t, func() {
		o := mustParse("a: 1\nb: [1 2]\nc: {x: 1}\nd: []\ne: (\"s\")")
		convey.So(o.WriteString(), convey.ShouldEqual,
			"a: 1\nb: [\n    1\n    2\n]\nc: {x: 1}\nd: []\ne: (\"s\")\n")
		convey.So(EmptyObj().WriteString(), convey.ShouldEqual, "")
	})

	convey.Convey("nested layout", t, func() {
		o := mustParse("a: {x: 1 y: {p: 1 q: 2}}")
		a, _ := o.GetObj("a")
		convey.So(a.String(), convey.ShouldEqual,
			"{\n    x: 1\n    y: {\n        p: 1\n        q: 2\n    }\n}")
	})

	convey.Convey("parents render first", t, func() {
		o := mustParse("@p: {a: 1}\nc: {b: 2 ^: @p}")
		c, _ := o.GetObj("c")
		convey.So(c.String(), convey.ShouldEqual, "{\n    ^: {a: 1}\n    b: 2\n}")
	})

	convey.Convey("fractions keep their type", t, func() {
		o := mustParse("a: 4/2\nb: 1/3\nc: -0.25")
		convey.So(o.WriteString(), convey.ShouldEqual, "a: 2.0\nb: 1/3\nc: -1/4\n")
	})
}

func TestFormatRoundTrip(t *testing.T) {
	convey.Convey("formatted documents parse back equal", t, func() {
		src := `
@p: {a: 1 b: 2}
c: {^: @p d: "q\"uote\t$" e: 'z'}
fr: (1/3 2.0 -3.25 -4)
arr: [[1 2] [] [3]]
tups: [(1 "a") (2 "b")]
tup: ()
e: {}
n: null
yes: true
big: 123456789012345678901234567890
deep: {a: {b: {c: [{d: 1}]}}}
str: "multi
line"
`
		o := mustParse(src)
		again, err := ParseObj(o.WriteString())
		convey.So(err, convey.ShouldBeNil)
		convey.So(again.Equal(o), convey.ShouldBeTrue)
		convey.So(again.WriteString(), convey.ShouldEqual, o.WriteString())
	})

	convey.Convey("WriteFile persists a document", t, func() {
		o := mustParse("a: 1\nb: {c: [1/2 3/4]}")
		path := filepath.Join(t.TempDir(), "out", "doc.over")
		convey.So(o.WriteFile(path), convey.ShouldBeNil)

		back, err := ParseObjFile(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(back.Equal(o), convey.ShouldBeTrue)
	})
}
