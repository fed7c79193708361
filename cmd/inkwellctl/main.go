// inkwellctl: CLI de administración para Inkwell.
// Habla con la API HTTP usando un access token de un actor con
// manage_roles; el subcomando migrate va directo a la base.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/inkwell/internal/store/pg"
	migrations "github.com/dropDatabas3/inkwell/migrations/postgres"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func main() {
	var (
		baseURL = envOr("INKWELL_URL", "http://localhost:8080")
		token   = envOr("INKWELL_TOKEN", "")
		out     = envOr("INKWELL_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "inkwellctl",
		Short: "CLI admin para Inkwell",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base de la API (env INKWELL_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "Access token (env INKWELL_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{OutFormat: out, HTTP: &http.Client{Timeout: timeout}}
	// Los flags se resuelven recién en Execute; refrescar antes de cada run.
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cl.BaseURL = baseURL
		cl.Token = token
		cl.OutFormat = out
	}

	// ─── ping ───
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Verifica que el servicio responda (GET /healthz)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/healthz", nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("ping falló: status=%d body=%s", status, string(body))
			}
			fmt.Println("ok")
			return nil
		},
	}

	// ─── login ───
	var loginEmail, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Obtiene un access token (imprimirlo para INKWELL_TOKEN)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _ := json.Marshal(map[string]string{
				"email":    loginEmail,
				"password": loginPassword,
			})
			status, body, err := cl.do("POST", "/v1/auth/login", b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("login falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	// ─── roles ───
	rolesCmd := &cobra.Command{Use: "roles", Short: "Administración de roles"}

	var roleName string
	var roleRead, roleWrite, roleDelete, roleManage bool
	rolesCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un rol con sus flags de permiso",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _ := json.Marshal(map[string]any{
				"name":                roleName,
				"read_posts_access":   roleRead,
				"write_posts_access":  roleWrite,
				"delete_posts_access": roleDelete,
				"manage_roles_access": roleManage,
			})
			status, body, err := cl.do("POST", "/v1/roles", b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("create falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	rolesCreateCmd.Flags().StringVar(&roleName, "name", "", "Nombre del rol")
	rolesCreateCmd.Flags().BoolVar(&roleRead, "read", false, "read_posts_access")
	rolesCreateCmd.Flags().BoolVar(&roleWrite, "write", false, "write_posts_access")
	rolesCreateCmd.Flags().BoolVar(&roleDelete, "delete", false, "delete_posts_access")
	rolesCreateCmd.Flags().BoolVar(&roleManage, "manage", false, "manage_roles_access")
	_ = rolesCreateCmd.MarkFlagRequired("name")

	var roleID string
	rolesGetCmd := &cobra.Command{
		Use:   "get",
		Short: "Muestra un rol por ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/v1/roles/"+roleID, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("get falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	rolesGetCmd.Flags().StringVar(&roleID, "id", "", "ID del rol")
	_ = rolesGetCmd.MarkFlagRequired("id")

	rolesCmd.AddCommand(rolesCreateCmd, rolesGetCmd)

	// ─── users ───
	usersCmd := &cobra.Command{Use: "users", Short: "Administración de usuarios"}

	var listPage, listSize int
	usersListCmd := &cobra.Command{
		Use:   "list",
		Short: "Lista usuarios con su rol (requiere manage_roles)",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/v1/users?page=%d&page_size=%d", listPage, listSize)
			status, body, err := cl.do("GET", path, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("list falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	usersListCmd.Flags().IntVar(&listPage, "page", 1, "Página")
	usersListCmd.Flags().IntVar(&listSize, "page-size", 5, "Tamaño de página")

	var crUserID, crRoleID string
	usersChangeRoleCmd := &cobra.Command{
		Use:   "change-role",
		Short: "Reasigna el rol de un usuario",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _ := json.Marshal(map[string]string{
				"user_id": crUserID,
				"role_id": crRoleID,
			})
			status, body, err := cl.do("PATCH", "/v1/users/role", b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("change-role falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	usersChangeRoleCmd.Flags().StringVar(&crUserID, "user-id", "", "ID del usuario")
	usersChangeRoleCmd.Flags().StringVar(&crRoleID, "role-id", "", "ID del rol nuevo")
	_ = usersChangeRoleCmd.MarkFlagRequired("user-id")
	_ = usersChangeRoleCmd.MarkFlagRequired("role-id")

	usersCmd.AddCommand(usersListCmd, usersChangeRoleCmd)

	// ─── migrate ───
	var migrateDSN string
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes (directo a la base)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if migrateDSN == "" {
				migrateDSN = os.Getenv("DATABASE_URL")
			}
			if migrateDSN == "" {
				return fmt.Errorf("falta el DSN (--dsn o DATABASE_URL)")
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			st, err := pg.New(ctx, pg.Options{DSN: migrateDSN})
			if err != nil {
				return err
			}
			defer st.Close()

			if err := pg.NewMigrator(st, migrations.FS, ".").Up(ctx); err != nil {
				return err
			}
			fmt.Println("migraciones al día")
			return nil
		},
	}
	migrateCmd.Flags().StringVar(&migrateDSN, "dsn", "", "DSN de postgres (env DATABASE_URL)")

	root.AddCommand(pingCmd, loginCmd, rolesCmd, usersCmd, migrateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
