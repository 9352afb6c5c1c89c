package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/prologin/gcc-api/cmd/app"
)

// @contact.name   Prologin
// @contact.url    https://prologin.org
// @contact.email  info@prologin.org
//
// @license.name  GPL-3.0
// @license.url   https://www.gnu.org/licenses/gpl-3.0.html
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
