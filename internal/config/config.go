// Package config carga la configuración de cada servicio con viper:
// defaults + config.yaml opcional + overrides por variables de entorno
// (prefijos SHELTER_, PORTAL_ y VETCLINIC_).
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Shelter configura el servicio de inventario.
type Shelter struct {
	Port        int
	DBPath      string // vacío => repos in-memory
	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

// Portal configura el portal de adopción.
type Portal struct {
	Port  int
	DBDSN string // vacío => repos in-memory

	ShelterURL     string
	VetClinicURL   string
	GatewayTimeout time.Duration

	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

// PractitionerSeed es una entrada del roster declarado en configuración.
type PractitionerSeed struct {
	ID                string `mapstructure:"id"`
	Name              string `mapstructure:"name"`
	Email             string `mapstructure:"email"`
	Specialization    string `mapstructure:"specialization"`
	WorkingHoursStart int    `mapstructure:"working_hours_start"`
	WorkingHoursEnd   int    `mapstructure:"working_hours_end"`
}

// VetClinic configura el servicio de turnos.
type VetClinic struct {
	Port      int
	DBPath    string // vacío => repos in-memory
	LogLevel  string
	LogFormat string
	Roster    []PractitionerSeed
}

func newViper(envPrefix string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Sin config.yaml se sigue con defaults + env.
	_ = v.ReadInConfig()
	return v
}

func LoadShelter() Shelter {
	v := newViper("SHELTER")
	v.SetDefault("port", 5001)
	v.SetDefault("db_path", "shelter.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cors_origins", []string{"*"})

	return Shelter{
		Port:        v.GetInt("port"),
		DBPath:      v.GetString("db_path"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		CORSOrigins: v.GetStringSlice("cors_origins"),
	}
}

func LoadPortal() Portal {
	v := newViper("PORTAL")
	v.SetDefault("port", 8000)
	v.SetDefault("db_dsn", "")
	v.SetDefault("shelter_url", "http://localhost:5001")
	v.SetDefault("vetclinic_url", "http://localhost:6001")
	v.SetDefault("gateway_timeout", "5s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cors_origins", []string{"*"})

	return Portal{
		Port:           v.GetInt("port"),
		DBDSN:          v.GetString("db_dsn"),
		ShelterURL:     v.GetString("shelter_url"),
		VetClinicURL:   v.GetString("vetclinic_url"),
		GatewayTimeout: v.GetDuration("gateway_timeout"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
		CORSOrigins:    v.GetStringSlice("cors_origins"),
	}
}

func LoadVetClinic() VetClinic {
	v := newViper("VETCLINIC")
	v.SetDefault("port", 6001)
	v.SetDefault("db_path", "vetclinic.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	cfg := VetClinic{
		Port:      v.GetInt("port"),
		DBPath:    v.GetString("db_path"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}
	_ = v.UnmarshalKey("roster", &cfg.Roster)
	if len(cfg.Roster) == 0 {
		// Roster mínimo de dev; producción lo declara en config.yaml.
		cfg.Roster = []PractitionerSeed{
			{ID: "vet-1", Name: "Sarah Mitchell", Specialization: "general"},
			{ID: "vet-2", Name: "James Wilson", Specialization: "surgery"},
		}
	}
	return cfg
}
