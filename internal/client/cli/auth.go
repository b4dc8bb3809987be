package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophticket/internal/client/images"
	"github.com/dmitrijs2005/gophticket/internal/client/services"
	"github.com/dmitrijs2005/gophticket/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Signup collects the signup form and creates the account. An optional
// profile image is loaded and checked before anything is stored.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Phone", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	imgSrc, err := getSimpleText(a.reader, "Profile image file or URL (optional)", a.out)
	if err != nil {
		return err
	}

	var img []byte
	var contentType string
	if imgSrc != "" {
		img, contentType, err = images.Load(ctx, a.http, imgSrc, a.config.MaxImageSize)
		if err != nil {
			return err
		}
		if contentType, err = images.Check(img, contentType, a.config.MaxImageSize); err != nil {
			return err
		}
	}

	acc, err := a.auth.Signup(ctx, services.SignupRequest{
		Name:            name,
		Email:           email,
		Phone:           phone,
		Password:        string(password),
		ConfirmPassword: string(confirm),
	})
	if err != nil {
		return err
	}

	if img != nil {
		if err := a.storeAvatar(ctx, acc.ID, img, contentType); err != nil {
			a.logger.Warn(ctx, "profile image not saved", "account_id", acc.ID, "error", err)
			fmt.Fprintln(a.out, "Profile image not saved:", services.AuthMessage(err))
		}
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", acc.Name)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	acc, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", acc.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	acc, err := a.auth.Current(ctx)
	if err != nil {
		return err
	}

	image := describeImage(acc.ProfileImage)
	if s3, ok := a.images.(*images.S3Store); ok && strings.HasPrefix(acc.ProfileImage, "s3://") {
		if u, err := s3.PresignedURL(ctx, acc.ProfileImage, 15*time.Minute); err == nil {
			image = u
		}
	}

	fmt.Fprintf(a.out, "Name:    %s\nEmail:   %s\nPhone:   %s\nUser ID: %s\nImage:   %s\n",
		acc.Name, acc.Email, acc.Phone, acc.ID, image)
	return nil
}

// Avatar replaces the profile image of the logged-in account.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: avatar <file|url>")
		return nil
	}

	acc, err := a.auth.Current(ctx)
	if err != nil {
		return err
	}

	img, contentType, err := images.Load(ctx, a.http, args[0], a.config.MaxImageSize)
	if err != nil {
		return err
	}
	if err := a.storeAvatar(ctx, acc.ID, img, contentType); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Profile image updated")
	return nil
}

func (a *App) storeAvatar(ctx context.Context, accountID string, img []byte, contentType string) error {
	ref, err := a.images.Put(ctx, accountID, img, contentType)
	if err != nil {
		return err
	}
	_, err = a.auth.UpdateProfileImage(ctx, accountID, ref)
	return err
}
