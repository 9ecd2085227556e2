// confgen собирает configs/values_<env>.yaml из базового values_base.yaml
// и оверлея values_<env>.overlay.yaml (если есть). Ключи окружения
// CONFGEN_* перекрывают всё.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const envPrefix = "CONFGEN"

func buildConfig(env string) (string, error) {
	base := viper.New()
	base.SetConfigName("values_base")
	base.SetConfigType("yaml")
	base.AddConfigPath("configs")
	if err := base.ReadInConfig(); err != nil {
		return "", errors.Wrap(err, "read base config")
	}

	overlay := viper.New()
	overlay.SetConfigName("values_" + env + ".overlay")
	overlay.SetConfigType("yaml")
	overlay.AddConfigPath("configs")
	if err := overlay.ReadInConfig(); err == nil {
		if mErr := base.MergeConfigMap(overlay.AllSettings()); mErr != nil {
			return "", errors.Wrap(mErr, "merge overlay")
		}
	}

	// CONFGEN_TELEGRAM_CHANNEL_ID=123 -> telegram.channel_id
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[0], envPrefix+"_") {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], envPrefix+"_"))
		key = strings.Replace(key, "_", ".", 1)
		base.Set(key, parts[1])
	}

	bs, err := yaml.Marshal(base.AllSettings())
	if err != nil {
		return "", errors.Wrap(err, "marshal config to yaml")
	}

	out := "configs/values_" + env + ".yaml"
	if err := os.WriteFile(out, bs, 0o644); err != nil {
		return "", errors.Wrap(err, "write result config")
	}
	return out, nil
}

func main() {
	env := "local"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}

	out, err := buildConfig(env)
	if err != nil {
		panic(fmt.Errorf("confgen: %w", err))
	}
	fmt.Printf("%s file complete\n", out)
	fmt.Println("done")
}
