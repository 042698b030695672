package main

import (
	"flag"

	"github.com/joeblew999/plat-textsnap/internal/config"
	"github.com/joeblew999/plat-textsnap/internal/server"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

func main() {
	configFile := flag.String("f", "etc/textsnap.yaml", "config file path")
	flag.Parse()

	logx.DisableStat()

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	s, err := server.New(c)
	logx.Must(err)

	s.Start()
}
