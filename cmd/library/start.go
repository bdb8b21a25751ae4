package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the API server",
	Run:   StartServer,
}

func init() {
	// the configuration parameters for the start command. Each flag is also
	// bound to the environment so deployments can configure the server
	// without arguments.
	startCmd.Flags().StringP("port", "p", "4001", "the port to listen on.")
	startCmd.Flags().String("mongodb-uri", "", "the connection string for the document store.")
	startCmd.Flags().String("database", "library", "the database holding the collections.")
	startCmd.Flags().String("jwt-secret", "", "the secret used to sign bearer tokens.")
	startCmd.Flags().Bool("in-memory", false, "keep all data in process memory instead of mongodb.")

	viper.BindPFlag("port", startCmd.Flags().Lookup("port"))
	viper.BindPFlag("mongodb-uri", startCmd.Flags().Lookup("mongodb-uri"))
	viper.BindPFlag("database", startCmd.Flags().Lookup("database"))
	viper.BindPFlag("jwt-secret", startCmd.Flags().Lookup("jwt-secret"))
	viper.BindPFlag("in-memory", startCmd.Flags().Lookup("in-memory"))

	viper.BindEnv("port", "PORT")
	viper.BindEnv("mongodb-uri", "MONGODB_URI")
	viper.BindEnv("database", "MONGODB_DATABASE")
	viper.BindEnv("jwt-secret", "JWT_SECRET")

	// add the start command to the root executable
	rootCmd.AddCommand(startCmd)
}

// StartServer begins an http server running the API
func StartServer(cmd *cobra.Command, args []string) {
	ListenAndServe(Config{
		Port:       viper.GetString("port"),
		MongoDBURI: viper.GetString("mongodb-uri"),
		Database:   viper.GetString("database"),
		JWTSecret:  viper.GetString("jwt-secret"),
		InMemory:   viper.GetBool("in-memory"),
	})
}
