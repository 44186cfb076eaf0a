package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/config"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/database"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
)

func main() {
	email := flag.String("email", "", "login email for the new account")
	password := flag.String("password", "", "initial password")
	firstName := flag.String("first", "", "first name")
	lastName := flag.String("last", "", "last name")
	role := flag.String("role", "admin", "role to assign")
	flag.Parse()

	if *email == "" || *password == "" || *firstName == "" || *lastName == "" {
		flag.Usage()
		os.Exit(1)
	}

	config.Init()
	db := config.GetDB()
	defer db.Close()

	user := &models.User{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  *password,
	}

	if err := database.CreateUser(db, user); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}

	if err := database.AssignRole(db, user.ID, *role); err != nil {
		fmt.Printf("User created but role assignment failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User created successfully: %s %s (%s), role %s\n", user.FirstName, user.LastName, user.Email, *role)
}
