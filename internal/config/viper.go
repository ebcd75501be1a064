package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ayoisaiah/proctor/debounce"
	"github.com/ayoisaiah/proctor/internal/models"
)

const (
	keyServerHost               = "server.host"
	keyServerPort               = "server.port"
	keySweepInterval            = "server.sweep_interval"
	keySessionExpiry            = "session.expiry"
	keyFocusThreshold           = "detection.focus_threshold"
	keyNoFaceSustain            = "detection.no_face.sustain"
	keyNoFaceSustainReliable    = "detection.no_face.sustain_reliable"
	keyFocusLostSustain         = "detection.focus_lost.sustain"
	keyFocusLostSustainReliable = "detection.focus_lost.sustain_reliable"
	keyMultipleFacesCooldown    = "detection.multiple_faces.cooldown"
	keyDeviceCooldown           = "detection.device.cooldown"
	keyMaterialsCooldown        = "detection.materials.cooldown"
	keyProhibitedClasses        = "detection.prohibited_classes"
	keyLogLevel                 = "log.level"
	keyLogFormat                = "log.format"
	keyLogMaxSize               = "log.max_size"
	keyLogMaxBackups            = "log.max_backups"
	keyLogMaxAge                = "log.max_age"
	keyAMQPURL                  = "notify.amqp_url"
	keyExchange                 = "notify.exchange"
	keyNotifyCommand            = "notify.command"
	keyNotifyDesktop            = "notify.desktop"
	keyNotifySound              = "notify.sound"
	keyDarkTheme                = "display.dark_theme"
	keyGeoIPDatabase            = "geoip.database"
)

// WithViperConfig returns an Option that loads configuration from the YAML
// file at configPath. A file with the default settings is written if none
// exists.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setDefaults(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if c.prompted {
			seedPromptAnswers(v, c)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

func setDefaults(v *viper.Viper) {
	d := debounce.DefaultConfig()

	classes := make(map[string]string, len(d.Classes))
	for k, cat := range d.Classes {
		classes[k] = string(cat)
	}

	v.SetDefault(keyServerHost, "127.0.0.1")
	v.SetDefault(keyServerPort, 8080)
	v.SetDefault(keySweepInterval, "1m")
	v.SetDefault(keySessionExpiry, "168h")
	v.SetDefault(keyFocusThreshold, d.FocusThreshold)
	v.SetDefault(keyNoFaceSustain, d.NoFaceSustain.String())
	v.SetDefault(keyNoFaceSustainReliable, d.NoFaceSustainReliable.String())
	v.SetDefault(keyFocusLostSustain, d.FocusLostSustain.String())
	v.SetDefault(keyFocusLostSustainReliable, d.FocusLostSustainReliable.String())
	v.SetDefault(keyMultipleFacesCooldown, d.MultipleFacesCooldown.String())
	v.SetDefault(keyDeviceCooldown, d.DeviceCooldown.String())
	v.SetDefault(keyMaterialsCooldown, d.MaterialsCooldown.String())
	v.SetDefault(keyProhibitedClasses, classes)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "text")
	v.SetDefault(keyLogMaxSize, 10)
	v.SetDefault(keyLogMaxBackups, 3)
	v.SetDefault(keyLogMaxAge, 28)
	v.SetDefault(keyAMQPURL, "")
	v.SetDefault(keyExchange, "proctor.violations")
	v.SetDefault(keyNotifyCommand, "")
	v.SetDefault(keyNotifyDesktop, false)
	v.SetDefault(keyNotifySound, false)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyGeoIPDatabase, "")
}

func seedPromptAnswers(v *viper.Viper, c *Config) {
	v.Set(keySessionExpiry, c.Session.Expiry.String())
	v.Set(keyFocusThreshold, c.Detection.FocusThreshold)
	v.Set(keyDarkTheme, c.Display.DarkTheme)
}

// loadViperConfig copies the settings from v into c.
func loadViperConfig(v *viper.Viper, c *Config) error {
	c.Server = ServerConfig{
		Host:          v.GetString(keyServerHost),
		Port:          v.GetInt(keyServerPort),
		SweepInterval: v.GetDuration(keySweepInterval),
	}

	c.Session = SessionConfig{
		Expiry: v.GetDuration(keySessionExpiry),
	}

	classes := make(map[string]models.Category)
	for class, cat := range v.GetStringMapString(keyProhibitedClasses) {
		classes[strings.ToLower(class)] = models.Category(cat)
	}

	c.Detection = DetectionConfig{
		ProhibitedClasses:        classes,
		FocusThreshold:           v.GetFloat64(keyFocusThreshold),
		NoFaceSustain:            v.GetDuration(keyNoFaceSustain),
		NoFaceSustainReliable:    v.GetDuration(keyNoFaceSustainReliable),
		FocusLostSustain:         v.GetDuration(keyFocusLostSustain),
		FocusLostSustainReliable: v.GetDuration(keyFocusLostSustainReliable),
		MultipleFacesCooldown:    v.GetDuration(keyMultipleFacesCooldown),
		DeviceCooldown:           v.GetDuration(keyDeviceCooldown),
		MaterialsCooldown:        v.GetDuration(keyMaterialsCooldown),
	}

	c.Log = LogConfig{
		Level:      v.GetString(keyLogLevel),
		Format:     v.GetString(keyLogFormat),
		MaxSize:    v.GetInt(keyLogMaxSize),
		MaxBackups: v.GetInt(keyLogMaxBackups),
		MaxAge:     v.GetInt(keyLogMaxAge),
	}

	c.Notify = NotifyConfig{
		AMQPURL:  v.GetString(keyAMQPURL),
		Exchange: v.GetString(keyExchange),
		Command:  v.GetString(keyNotifyCommand),
		Desktop:  v.GetBool(keyNotifyDesktop),
		Sound:    v.GetBool(keyNotifySound),
	}

	c.GeoIP = GeoIPConfig{
		Database: v.GetString(keyGeoIPDatabase),
	}

	c.Display = DisplayConfig{
		DarkTheme: v.GetBool(keyDarkTheme),
	}

	if c.System.ConfigPath == "" {
		c.System.ConfigPath = v.ConfigFileUsed()
	}

	return nil
}
