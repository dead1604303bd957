package auth

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"

	"github.com/justsurfingit/brightpath/internal/errors"
)

// GmailConfig reads the OAuth client from credentialsPath with read-only Gmail scope.
func GmailConfig(credentialsPath string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "unable to read client secret file"),
			"download an OAuth client (desktop app) from the Google Cloud console")
	}
	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse client secret file")
	}
	return config, nil
}

// GmailHTTPClient returns a client authorized for the user's mailbox.
// The token cached at tokenPath is used when present; otherwise the user is
// sent to the consent page through out and the code is read from in.
func GmailHTTPClient(ctx context.Context, credentialsPath, tokenPath string, in io.Reader, out io.Writer) (*http.Client, error) {
	config, err := GmailConfig(credentialsPath)
	if err != nil {
		return nil, err
	}
	tok, err := TokenFromFile(tokenPath)
	if err != nil {
		if in == nil {
			return nil, errors.WithHint(errors.Wrap(err, "no gmail token"), "run `brightpath inbox login` first")
		}
		tok, err = TokenFromWeb(ctx, config, in, out)
		if err != nil {
			return nil, err
		}
		if err := SaveToken(tokenPath, tok); err != nil {
			return nil, err
		}
	}
	return config.Client(ctx, tok), nil
}

// TokenFromWeb walks the user through the consent page and exchanges the code.
func TokenFromWeb(ctx context.Context, config *oauth2.Config, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open this link to authorize Gmail access:\n%s\n\nPaste the code here: ", authURL)

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || code == "") {
		return nil, errors.Wrap(err, "unable to read authorization code")
	}
	tok, err := config.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, errors.Wrap(err, "unable to retrieve token from web")
	}
	return tok, nil
}

// TokenFromFile reads a cached token.
func TokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return tok, nil
}

// SaveToken caches token at path, readable by the owner only.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrap(err, "unable to cache oauth token")
	}
	defer f.Close()
	return errors.Wrap(json.NewEncoder(f).Encode(token), "encode oauth token")
}
