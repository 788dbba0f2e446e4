package over

import (
	"math/big"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestValueAccessors(t *testing.T) {
	convey.Convey("scalar accessors", t, func() {
		n, err := IntFrom(42).AsInt()
		convey.So(err, convey.ShouldBeNil)
		convey.So(n.Int64(), convey.ShouldEqual, 42)

		v := IntFrom(7)
		got, _ := v.AsInt()
		got.SetInt64(9)
		again, _ := v.AsInt()
		convey.So(again.Int64(), convey.ShouldEqual, 7)

		_, err = Str("x").AsBool()
		convey.So(IsKind(err, ErrTypeMismatch), convey.ShouldBeTrue)
		convey.So(err.Error(), convey.ShouldEqual, "type mismatch: expected Bool, found Str")

		convey.So(Value{}.IsNull(), convey.ShouldBeTrue)
		convey.So(Null().Equal(Value{}), convey.ShouldBeTrue)
	})

	convey.Convey("Int and Frac never compare equal", t, func() {
		convey.So(IntFrom(2).Equal(FracFrom(2, 1)), convey.ShouldBeFalse)
		convey.So(FracFrom(4, 2).Equal(FracFrom(2, 1)), convey.ShouldBeTrue)
	})

	convey.Convey("value rendering", t, func() {
		convey.So(FracFrom(2, 1).String(), convey.ShouldEqual, "2.0")
		convey.So(FracFrom(-1, 3).String(), convey.ShouldEqual, "-1/3")
		convey.So(Str("a\"b$").String(), convey.ShouldEqual, `"a\"b\$"`)
		convey.So(Int(big.NewInt(-5)).String(), convey.ShouldEqual, "-5")
	})
}

func TestArr(t *testing.T) {
	convey.Convey("NewArr unifies element types", t, func() {
		ints, err := NewArr(IntFrom(1), IntFrom(2))
		convey.So(err, convey.ShouldBeNil)

		nested, err := NewArr(FromArr(EmptyArr()), FromArr(ints))
		convey.So(err, convey.ShouldBeNil)
		convey.So(nested.ElemType().Is(ArrType(TypeInt)), convey.ShouldBeTrue)

		_, err = NewArr(FromArr(ints), FromArr(EmptyArr()), IntFrom(3))
		convey.So(IsKind(err, ErrArrTypeMismatch), convey.ShouldBeTrue)
	})

	convey.Convey("heterogeneous elements are rejected", t, func() {
		_, err := NewArr(IntFrom(1), Str("a"))
		convey.So(IsKind(err, ErrArrTypeMismatch), convey.ShouldBeTrue)
		convey.So(err.Error(), convey.ShouldContainSubstring, "Int")
		convey.So(err.Error(), convey.ShouldContainSubstring, "Str")
	})

	convey.Convey("indexing and identity", t, func() {
		a, _ := NewArr(Str("x"), Str("y"))
		v, err := a.Get(1)
		convey.So(err, convey.ShouldBeNil)
		convey.So(v.Equal(Str("y")), convey.ShouldBeTrue)

		_, err = a.Get(2)
		convey.So(IsKind(err, ErrArrOutOfBounds), convey.ShouldBeTrue)

		b, _ := NewArr(Str("x"), Str("y"))
		convey.So(a.Equal(b), convey.ShouldBeTrue)
		convey.So(a.Same(b), convey.ShouldBeFalse)
		convey.So(EmptyArr().Same(EmptyArr()), convey.ShouldBeTrue)
	})

	convey.Convey("Concat keeps order", t, func() {
		a, _ := NewArr(IntFrom(1))
		b, _ := NewArr(IntFrom(2), IntFrom(3))
		c, err := a.Concat(b)
		convey.So(err, convey.ShouldBeNil)
		convey.So(c.Len(), convey.ShouldEqual, 3)
		last, _ := c.Get(2)
		convey.So(last.Equal(IntFrom(3)), convey.ShouldBeTrue)

		s, _ := NewArr(Str("s"))
		_, err = a.Concat(s)
		convey.So(IsKind(err, ErrArrTypeMismatch), convey.ShouldBeTrue)
	})
}

func TestTup(t *testing.T) {
	convey.Convey("tuples keep per-position types", t, func() {
		tup := NewTup(IntFrom(1), Str("a"), Bool(true))
		convey.So(tup.Len(), convey.ShouldEqual, 3)
		convey.So(FromTup(tup).Type().Is(TupType(TypeInt, TypeStr, TypeBool)), convey.ShouldBeTrue)

		_, err := tup.Get(3)
		convey.So(IsKind(err, ErrTupOutOfBounds), convey.ShouldBeTrue)

		other := NewTup(IntFrom(1), Str("a"), Bool(true))
		convey.So(tup.Equal(other), convey.ShouldBeTrue)
		convey.So(tup.Equal(NewTup(IntFrom(1), Str("a"))), convey.ShouldBeFalse)
		convey.So(EmptyTup().IsEmpty(), convey.ShouldBeTrue)
	})
}

func TestObj(t *testing.T) {
	convey.Convey("parent lookups", t, func() {
		parent, err := NewObj([]Pair{{Field: "a", Value: IntFrom(1)}}, nil)
		convey.So(err, convey.ShouldBeNil)
		child, err := NewObj([]Pair{{Field: "b", Value: IntFrom(2)}}, parent)
		convey.So(err, convey.ShouldBeNil)

		a, err := child.GetInt("a")
		convey.So(err, convey.ShouldBeNil)
		convey.So(a.Int64(), convey.ShouldEqual, 1)
		convey.So(child.Contains("a"), convey.ShouldBeFalse)

		_, src, ok := child.GetWithSource("a")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(src.Same(parent), convey.ShouldBeTrue)
		_, src, _ = child.GetWithSource("b")
		convey.So(src.Same(child), convey.ShouldBeTrue)

		p, err := child.GetParent()
		convey.So(err, convey.ShouldBeNil)
		convey.So(p.Same(parent), convey.ShouldBeTrue)

		_, err = parent.GetParent()
		convey.So(IsKind(err, ErrNoParentFound), convey.ShouldBeTrue)
	})

	convey.Convey("typed access errors", t, func() {
		o, _ := NewObj([]Pair{{Field: "n", Value: IntFrom(1)}}, nil)
		_, err := o.GetStr("n")
		convey.So(IsKind(err, ErrTypeMismatch), convey.ShouldBeTrue)
		_, err = o.GetStr("missing")
		convey.So(IsKind(err, ErrFieldNotFound), convey.ShouldBeTrue)
	})

	convey.Convey("field validation", t, func() {
		_, err := NewObj([]Pair{{Field: "1a", Value: Null()}}, nil)
		convey.So(IsKind(err, ErrInvalidFieldName), convey.ShouldBeTrue)
		_, err = NewObj([]Pair{{Field: "true", Value: Null()}}, nil)
		convey.So(IsKind(err, ErrInvalidFieldName), convey.ShouldBeTrue)
		_, err = NewObj([]Pair{{Field: "a", Value: Null()}, {Field: "a", Value: Null()}}, nil)
		convey.So(IsKind(err, ErrDuplicateField), convey.ShouldBeTrue)

		convey.So(IsValidField("_tmp"), convey.ShouldBeTrue)
		convey.So(IsValidField("snake_case2"), convey.ShouldBeTrue)
		convey.So(IsValidField("^"), convey.ShouldBeFalse)
		convey.So(IsValidField(""), convey.ShouldBeFalse)
	})

	convey.Convey("equality is order sensitive", t, func() {
		ab, _ := NewObj([]Pair{{Field: "a", Value: IntFrom(1)}, {Field: "b", Value: IntFrom(2)}}, nil)
		ab2, _ := NewObj([]Pair{{Field: "a", Value: IntFrom(1)}, {Field: "b", Value: IntFrom(2)}}, nil)
		ba, _ := NewObj([]Pair{{Field: "b", Value: IntFrom(2)}, {Field: "a", Value: IntFrom(1)}}, nil)
		convey.So(ab.Equal(ab2), convey.ShouldBeTrue)
		convey.So(ab.Equal(ba), convey.ShouldBeFalse)

		withParent, _ := NewObj(ab.Pairs(), EmptyObj())
		convey.So(ab.Equal(withParent), convey.ShouldBeFalse)
	})

	convey.Convey("ids increase", t, func() {
		first := EmptyObj()
		second := EmptyObj()
		convey.So(second.ID(), convey.ShouldBeGreaterThan, first.ID())
	})

	convey.Convey("GetPath walks nested objects", t, func() {
		inner, _ := NewObj([]Pair{{Field: "leaf", Value: Str("ok")}}, nil)
		outer, _ := NewObj([]Pair{{Field: "inner", Value: FromObj(inner)}}, nil)
		v, err := outer.GetPath("inner", "leaf")
		convey.So(err, convey.ShouldBeNil)
		convey.So(v.Equal(Str("ok")), convey.ShouldBeTrue)

		_, err = outer.GetPath("inner", "leaf", "deeper")
		convey.So(IsKind(err, ErrTypeMismatch), convey.ShouldBeTrue)
		convey.So(strings.Contains(err.Error(), "Obj"), convey.ShouldBeTrue)
	})
}
