package toml

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/m-cat/over/parse/over"
	"github.com/smartystreets/goconvey/convey"
)

func TestToObj(t *testing.T) {
	convey.Convey("tables become objs in source order", t, func() {
		src := `
title = "demo"
ratio = 0.1
big = 1e3
[server]
port = 8080
hosts = ["a", "b"]
mixed = [1, "two"]
started = 1979-05-27T07:32:00Z

[[server.routes]]
path = "/"

[[server.routes]]
path = "/api"
`
		o, err := ParseObj(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)

		fields := make([]string, 0, o.Len())
		for _, p := range o.Pairs() {
			fields = append(fields, p.Field)
		}
		convey.So(fields, convey.ShouldResemble, []string{"title", "ratio", "big", "server"})

		ratio, err := o.GetFrac("ratio")
		convey.So(err, convey.ShouldBeNil)
		convey.So(ratio.Cmp(big.NewRat(1, 10)), convey.ShouldEqual, 0)
		bigFrac, err := o.GetFrac("big")
		convey.So(err, convey.ShouldBeNil)
		convey.So(bigFrac.Cmp(big.NewRat(1000, 1)), convey.ShouldEqual, 0)

		port, err := o.GetPath("server", "port")
		convey.So(err, convey.ShouldBeNil)
		convey.So(port.Equal(over.IntFrom(8080)), convey.ShouldBeTrue)

		hosts, err := o.GetPath("server", "hosts")
		convey.So(err, convey.ShouldBeNil)
		convey.So(hosts.Kind(), convey.ShouldEqual, over.KindArr)

		mixed, err := o.GetPath("server", "mixed")
		convey.So(err, convey.ShouldBeNil)
		convey.So(mixed.Kind(), convey.ShouldEqual, over.KindTup)

		started, err := o.GetPath("server", "started")
		convey.So(err, convey.ShouldBeNil)
		convey.So(started.Equal(over.Str("1979-05-27T07:32:00Z")), convey.ShouldBeTrue)

		routes, err := o.GetPath("server", "routes")
		convey.So(err, convey.ShouldBeNil)
		arr, err := routes.AsArr()
		convey.So(err, convey.ShouldBeNil)
		convey.So(arr.Len(), convey.ShouldEqual, 2)
		second, _ := arr.Get(1)
		path, err := second.AsObj()
		convey.So(err, convey.ShouldBeNil)
		p, _ := path.GetStr("path")
		convey.So(p, convey.ShouldEqual, "/api")
	})

	convey.Convey("a ^ table becomes the parent", t, func() {
		o, err := ParseObj(strings.NewReader("name = \"child\"\n[\"^\"]\nname = \"base\"\nport = 80\n"))
		convey.So(err, convey.ShouldBeNil)
		convey.So(o.HasParent(), convey.ShouldBeTrue)
		port, err := o.GetInt("port")
		convey.So(err, convey.ShouldBeNil)
		convey.So(port.Int64(), convey.ShouldEqual, 80)
		name, _ := o.GetStr("name")
		convey.So(name, convey.ShouldEqual, "child")
	})

	convey.Convey("errors come back as positioned over errors", t, func() {
		_, err := ParseObj(strings.NewReader("a = 1\na = 2"))
		convey.So(over.IsKind(err, over.ErrInvalidValue), convey.ShouldBeTrue)
		convey.So(err.Error(), convey.ShouldEqual, `toml:2:1: duplicate key "a"`)

		_, err = ParseObj(strings.NewReader("ok = 1\n\"first-name\" = \"x\""))
		convey.So(over.IsKind(err, over.ErrInvalidFieldName), convey.ShouldBeTrue)
		var oe *over.Error
		convey.So(errors.As(err, &oe), convey.ShouldBeTrue)
		convey.So(oe.Line, convey.ShouldEqual, 2)
		convey.So(err.Error(), convey.ShouldEqual, `toml:2: invalid field name: "first-name"`)

		_, err = ParseObj(strings.NewReader("x = inf"))
		convey.So(over.IsKind(err, over.ErrNumeric), convey.ShouldBeTrue)
		convey.So(errors.As(err, &oe), convey.ShouldBeTrue)
		convey.So(oe.Line, convey.ShouldEqual, 1)

		_, err = ParseObj(strings.NewReader("[a]\n\"^\" = 1"))
		convey.So(over.IsKind(err, over.ErrTypeMismatch), convey.ShouldBeTrue)
		convey.So(errors.As(err, &oe), convey.ShouldBeTrue)
		convey.So(oe.Line, convey.ShouldEqual, 2)
	})
}
