package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	fullName, err := c.io.ReadInput("Full name (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read full name: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := c.session.Register(ctx, email, password, fullName); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.printUser()

	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if err := c.session.Login(ctx, email, password); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.printUser()
	c.io.Printf("History items: %d\n", len(c.history.State().Items))

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if !c.session.State().IsAuthenticated() {
		c.io.Println("Not logged in.")
		return nil
	}

	if err := c.session.Logout(ctx); err != nil {
		return err
	}

	c.io.Println("✓ Logged out successfully")
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	state := c.session.State()
	if !state.IsAuthenticated() {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Operations run anonymously and are not saved on the server.")
		c.io.Println("Run 'smartnlp login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	c.printUser()
	c.io.Printf("Theme: %s\n", c.history.State().Theme)

	return nil
}

func (c *Cli) printUser() {
	user := c.session.State().User
	if user == nil {
		return
	}
	c.io.Printf("Email: %s\n", user.Email)
	if user.FullName != "" {
		c.io.Printf("Name: %s\n", user.FullName)
	}
	c.io.Printf("User ID: %s\n", user.ID)
}
