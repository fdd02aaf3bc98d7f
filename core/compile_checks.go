package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ ConfigProvider  = (*CfgxConfigProvider)(nil)
	_ RawConfigLoader = StaticRawConfigLoader{}
	_ RawConfigLoader = YAMLFileConfigLoader{}
	_ OptionsResolver = GoOptionsResolver{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
