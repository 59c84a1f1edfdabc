package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/polyrabbit/coin-dashboard/market"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

// Will be set by go-build
var (
	Version string
	Rev     string
)

const envPrefix = "COIN_DASHBOARD"

func Parse() *Config {
	// Set log format
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	}
	logrus.SetFormatter(formatter)
	logrus.SetOutput(colorable.NewColorableStderr()) // For Windows

	defaults := Default()
	showVersion := pflag.BoolP("version", "v", false, "Show version number")
	showHelp := pflag.BoolP("help", "h", false, "Show usage message")
	pflag.CommandLine.MarkHidden("help")
	pflag.BoolP("debug", "d", false, "Enable debug mode")
	pflag.StringP("api-url", "u", "", "Markets endpoint, query parameters are appended with '&' \n(eg. "+
		"\""+defaults.APIURL+"\")")
	pflag.IntP("limit", "n", defaults.Limit, "Number of coins to fetch per request")
	pflag.StringP("filter", "f", "", "Only show coins whose name or symbol contains this text")
	pflag.StringP("sort", "o", defaults.Sort, fmt.Sprintf("Sort order, one of %v", sortKeyNames()))
	pflag.IntP("refresh", "r", 0, "Auto refresh on every specified seconds, "+
		"note the provider has a rate limit, \ntoo frequent refresh may cause your IP banned by their servers")
	pflag.StringP("mode", "m", defaults.Mode, `"tui" for the interactive dashboard, "plain" to print and exit, `+
		`"auto" picks tui on a terminal`)
	pflag.StringP("layout", "L", defaults.Layout, `Plain mode layout, "cards" or "table"`)

	var configFile string
	pflag.StringVarP(&configFile, "config-file", "c", "", `Config file path, use "--example-config-file <path>" `+
		"to generate an example config file,\n"+
		"by default coin-dashboard uses \"coin_dashboard.yml\" in current directory or $HOME as config file")
	var exampleConfigFile string
	pflag.StringVar(&exampleConfigFile, "example-config-file", "",
		"Generate example config file to the specified file path, by default it outputs to stdout")
	pflag.Lookup("example-config-file").NoOptDefVal = "-"

	pflag.StringSliceP("show", "s", defaults.Columns, fmt.Sprintf("Only show comma-separated columns in table layout, "+
		"available %v", allColumns()))
	pflag.StringP("proxy", "p", "", "Proxy used when sending HTTP request \n(eg. "+
		"\"http://localhost:7777\", \"https://localhost:7777\", \"socks5://localhost:1080\")")
	pflag.IntP("timeout", "t", defaults.Timeout, "HTTP request timeout in seconds")
	pflag.String("log-file", "", "Write logs to this file (rotated), the interactive dashboard discards logs without it")
	pflag.CommandLine.SortFlags = false
	pflag.Usage = showUsageAndExit
	pflag.Parse()

	if *showHelp {
		showUsageAndExit()
	}

	if *showVersion {
		fmt.Fprintf(os.Stderr, "Version %s", Version)
		if Rev != "" {
			fmt.Fprintf(os.Stderr, ", build %s", Rev)
		}
		fmt.Fprintln(os.Stderr)
		os.Exit(0)
	}

	if exampleConfigFile != "" {
		writeExampleConfig(exampleConfigFile)
		os.Exit(0)
	}

	loadDotEnv(".env")

	v := viper.GetViper()
	bindFlags(v, pflag.CommandLine)
	bindEnv(v)
	// Set configure file
	v.SetConfigName("coin_dashboard") // name of config file (without extension)
	v.AddConfigPath(".")              // path to look for the config file in
	v.AddConfigPath("$HOME")          // optionally look for config in the HOME directory
	v.AddConfigPath("/etc")           // and /etc
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil { // Find and read the config file
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			logrus.Debugln("No config file found, using flags and environment")
		default:
			logrus.Warnf("Error reading config file: %v", err)
		}
	}

	cfg, err := Load(v)
	if err != nil {
		logrus.Fatalf("Invalid configuration (config file %q): %s", v.ConfigFileUsed(), err)
	}
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Debugln("Using config file:", v.ConfigFileUsed())
	return cfg
}

// Load unmarshals v over the defaults and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.Sort = strings.ToLower(strings.TrimSpace(cfg.Sort))
	cfg.Layout = strings.ToLower(strings.TrimSpace(cfg.Layout))
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Flag names use dashes, config keys use underscores.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		switch f.Name {
		case "help", "version", "config-file", "example-config-file":
			return
		}
		v.BindPFlag(strings.Replace(f.Name, "-", "_", -1), f)
	})
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// A bare API_URL is accepted as well, it's what most .env files already carry
	v.BindEnv("api_url", envPrefix+"_API_URL", "API_URL")
}

func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return
		}
		logrus.Warnf("Failed to load %s: %v", path, err)
		return
	}
	logrus.Debugf("Loaded environment from %s", path)
}

// LogOutput returns where logs should go when the terminal belongs to the dashboard.
func (c *Config) LogOutput() io.Writer {
	if c.LogFile == "" {
		return io.Discard
	}
	return &lumberjack.Logger{
		Filename:   c.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

func sortKeyNames() []string {
	var names []string
	for _, key := range market.SortKeys() {
		names = append(names, string(key))
	}
	return names
}

func showUsageAndExit() {
	// Print usage message and exit
	fmt.Fprintf(os.Stderr, "\nUsage: %s [Options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "\nWatch cryptocurrency market data in the terminal")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	pflag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nInteractive keys:")
	fmt.Fprintln(os.Stderr, "  /  filter    tab  change limit    s/S  change sort order    r  reload    q  quit")
	fmt.Fprintln(os.Stderr, "\nFind help/updates from here - https://github.com/polyrabbit/coin-dashboard")
	os.Exit(0)
}

func ExampleConfig() ([]byte, error) {
	out, err := yaml.Marshal(Default())
	if err != nil {
		return nil, err
	}
	header := "# coin-dashboard example config, save as coin_dashboard.yml in current directory or $HOME\n" +
		"# api_url can also come from COIN_DASHBOARD_API_URL or API_URL (a .env file works too)\n"
	return append([]byte(header), out...), nil
}

func writeExampleConfig(fpath string) {
	example, err := ExampleConfig()
	if err != nil {
		logrus.Fatalf("Failed to generate example config: %v", err)
	}
	fout := os.Stdout
	if fpath != "-" {
		if _, err := os.Stat(fpath); err == nil {
			logrus.Warnf("%s already exists, skipping", fpath)
			return
		}
		if fout, err = os.Create(fpath); err != nil {
			logrus.Errorf("Failed to create config file %s, error: %v", fpath, err)
			return
		}
		defer fout.Close()
	}
	if _, err := fout.Write(example); err != nil {
		logrus.Errorf("Failed to write config file %s, error: %v", fpath, err)
	} else if fout != os.Stdout {
		logrus.Infof("Write example config file to %s", fpath)
	}
}
