package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rathee95/bookhub/internal/config"
	"github.com/rathee95/bookhub/internal/database"
	"github.com/rathee95/bookhub/internal/follow"
	"github.com/rathee95/bookhub/internal/logs"
	"github.com/rathee95/bookhub/internal/storage"
	"github.com/rathee95/bookhub/internal/user"
)

const usage = `usage: bookhub <command> [flags]

commands:
  migrate         apply pending schema migrations
  showmigrations  list migrations and whether they are applied
  createuser      create an account with its profile
  setprofile      update profile fields of an account
  deleteuser      delete an account, its follow edges and its picture
  follow          make -follower follow -followee
  unfollow        remove the -follower -> -followee edge
  following       list the users -id follows
  followers       list the users following -id`

var errUsage = errors.New(usage)

func main() {
	cfg := config.LoadConfig()
	logs.SetLevel(cfg.LogLevel)
	defer logs.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	// La connexion n'est ouverte qu'une fois la commande et ses drapeaux validés.
	connect := func() error {
		if err := database.Connect(cfg.DBUrl, cfg.LogLevel); err != nil {
			return err
		}
		if cfg.MigrateOnStart && os.Args[1] != "migrate" {
			if err := database.Migrate(ctx, database.DB); err != nil {
				return fmt.Errorf("migrate on start: %w", err)
			}
		}
		return nil
	}
	defer database.Close()

	var pics user.PictureStore
	if cfg.StorageEnabled() {
		s3Store, err := storage.NewS3Store(ctx, cfg.AWSBucket, cfg.AWSRegion, cfg.AWSAccessKey, cfg.AWSSecretKey)
		if err != nil {
			logs.LogJSON("FATAL", "S3 initialisation failed", map[string]interface{}{"error": err.Error()})
		}
		pics = s3Store
	}

	if err := run(ctx, os.Args[1:], os.Stdout, pics, connect); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		logs.LogJSON("ERROR", "Command failed", map[string]interface{}{
			"command": os.Args[1],
			"error":   err.Error(),
		})
		os.Exit(1)
	}
}

// run exécute une commande. connect est appelé après la lecture des
// drapeaux, juste avant le premier accès à la base.
func run(ctx context.Context, args []string, out io.Writer, pics user.PictureStore, connect func() error) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	switch cmd {
	case "migrate":
		if err := parse(fs, rest); err != nil {
			return err
		}
		if err := connect(); err != nil {
			return err
		}
		return database.Migrate(ctx, database.DB)

	case "showmigrations":
		if err := parse(fs, rest); err != nil {
			return err
		}
		if err := connect(); err != nil {
			return err
		}
		status, err := database.Status(ctx, database.DB)
		if err != nil {
			return err
		}
		for _, st := range status {
			mark := " "
			if st.Applied {
				mark = "X"
			}
			fmt.Fprintf(out, "[%s] %s\n", mark, st.Version)
		}
		return nil

	case "createuser":
		return createUser(ctx, fs, rest, out, connect)

	case "setprofile":
		return setProfile(ctx, fs, rest, connect)

	case "deleteuser":
		id := fs.String("id", "", "account id")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		if err := connect(); err != nil {
			return err
		}
		return user.DeleteAccount(ctx, *id, pics)

	case "follow", "unfollow":
		follower := fs.String("follower", "", "follower account id")
		followee := fs.String("followee", "", "followed account id")
		if err := parse(fs, rest, follower, followee); err != nil {
			return err
		}
		if err := connect(); err != nil {
			return err
		}
		if cmd == "follow" {
			return follow.FollowUser(ctx, *follower, *followee)
		}
		return follow.UnfollowUser(ctx, *follower, *followee)

	case "following", "followers":
		id := fs.String("id", "", "account id")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		if err := connect(); err != nil {
			return err
		}
		list := follow.Following
		if cmd == "followers" {
			list = follow.Followers
		}
		users, err := list(ctx, *id)
		if err != nil {
			return err
		}
		return writeJSON(out, map[string]interface{}{cmd: users})

	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func createUser(ctx context.Context, fs *flag.FlagSet, args []string, out io.Writer, connect func() error) error {
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "raw password, empty for an unusable one")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	superuser := fs.Bool("superuser", false, "grant staff and superuser flags")
	phone := fs.String("phone", "", "phone number")
	gender := fs.String("gender", string(user.GenderUnspecified), "M, F or NS")
	contributor := fs.String("contributor", string(user.ContributorUnspecified), "Y, N or NS")
	dob := fs.String("dob", "", "date of birth, YYYY-MM-DD")
	if err := parse(fs, args, username); err != nil {
		return err
	}

	u := user.New(*username, *email)
	u.FirstName = *firstName
	u.LastName = *lastName
	u.IsStaff = *superuser
	u.IsSuperuser = *superuser
	u.Profile.PhoneNumber = *phone
	u.Profile.Gender = user.Gender(*gender)
	u.Profile.Contributor = user.Contributor(*contributor)

	if *dob != "" {
		d, err := time.Parse("2006-01-02", *dob)
		if err != nil {
			return fmt.Errorf("invalid -dob: %w", err)
		}
		u.Profile.DOB = &d
	}

	if *password != "" {
		if err := u.SetPassword(*password); err != nil {
			return err
		}
	} else {
		u.SetUnusablePassword()
	}

	if err := u.Validate(); err != nil {
		return err
	}
	if err := connect(); err != nil {
		return err
	}
	if err := user.Create(ctx, u); err != nil {
		return err
	}
	return writeJSON(out, map[string]interface{}{"user": u})
}

func setProfile(ctx context.Context, fs *flag.FlagSet, args []string, connect func() error) error {
	id := fs.String("id", "", "account id")
	var in user.ProfileUpdate

	fs.Func("gender", "M, F or NS", func(s string) error {
		g := user.Gender(s)
		in.Gender = &g
		return nil
	})
	fs.Func("contributor", "Y, N or NS", func(s string) error {
		c := user.Contributor(s)
		in.Contributor = &c
		return nil
	})
	fs.Func("phone", "phone number, empty to clear", func(s string) error {
		in.PhoneNumber = &s
		return nil
	})
	fs.Func("profile-pic", "stored picture key", func(s string) error {
		in.ProfilePic = &s
		return nil
	})
	fs.Func("dob", "date of birth, YYYY-MM-DD, empty to clear", func(s string) error {
		if s == "" {
			in.ClearDOB = true
			return nil
		}
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return err
		}
		in.DOB = &d
		return nil
	})
	if err := parse(fs, args, id); err != nil {
		return err
	}

	if err := connect(); err != nil {
		return err
	}
	return user.UpdateProfile(ctx, *id, in)
}

// parse lit les drapeaux et vérifie que les valeurs requises sont présentes.
func parse(fs *flag.FlagSet, args []string, required ...*string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %v: %w", fs.Name(), err, errUsage)
	}
	for _, r := range required {
		if *r == "" {
			return fmt.Errorf("%s: missing required flag: %w", fs.Name(), errUsage)
		}
	}
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
