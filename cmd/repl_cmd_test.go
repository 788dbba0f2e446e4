package cmd

import (
	"path/filepath"
	"testing"

	"github.com/m-cat/over/parse/over"
	"github.com/smartystreets/goconvey/convey"
)

func TestSession(t *testing.T) {
	convey.Convey("entries accumulate into one document", t, func() {
		s := newSession()

		added, err := s.eval("@base: 10")
		convey.So(err, convey.ShouldBeNil)
		convey.So(len(added), convey.ShouldEqual, 0)

		added, err = s.eval("a: @base*2")
		convey.So(err, convey.ShouldBeNil)
		convey.So(len(added), convey.ShouldEqual, 1)
		convey.So(added[0].Value.Equal(over.IntFrom(20)), convey.ShouldBeTrue)

		added, err = s.eval("b: a+1 c: a")
		convey.So(err, convey.ShouldBeNil)
		convey.So(len(added), convey.ShouldEqual, 2)
	})

	convey.Convey("failed entries leave the session unchanged", t, func() {
		s := newSession()
		_, err := s.eval("a: 1")
		convey.So(err, convey.ShouldBeNil)

		_, err = s.eval("a: 2")
		convey.So(over.IsKind(err, over.ErrDuplicateField), convey.ShouldBeTrue)
		convey.So(s.obj.Len(), convey.ShouldEqual, 1)

		_, err = s.eval("b: a")
		convey.So(err, convey.ShouldBeNil)
	})

	convey.Convey("unterminated input asks for more", t, func() {
		s := newSession()
		convey.So(s.incomplete("a: {b: 1"), convey.ShouldBeTrue)
		convey.So(s.incomplete("a: \"open"), convey.ShouldBeTrue)
		convey.So(s.incomplete("a: {b: 1}"), convey.ShouldBeFalse)
		convey.So(s.incomplete("a: }"), convey.ShouldBeFalse)
	})

	convey.Convey("commands", t, func() {
		s := newSession()
		_, err := s.eval("a: {b: 1}")
		convey.So(err, convey.ShouldBeNil)

		path := filepath.Join(t.TempDir(), "saved.over")
		convey.So(s.command(":save "+path), convey.ShouldBeFalse)
		back, err := over.ParseObjFile(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(back.Equal(s.obj), convey.ShouldBeTrue)

		convey.So(s.command(":reset"), convey.ShouldBeFalse)
		convey.So(s.obj.IsEmpty(), convey.ShouldBeTrue)
		convey.So(s.command(":quit"), convey.ShouldBeTrue)
	})
}
