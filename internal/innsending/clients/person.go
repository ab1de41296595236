package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"soknadpdf/internal/platform/httpclient"
)

// Person is the applicant's name and registered address, formatted for display.
// Either may be empty.
type Person struct {
	Name    string
	Address string
}

const hentPersonQuery = `query($ident: ID!) {
  hentPerson(ident: $ident) {
    navn { fornavn mellomnavn etternavn }
    bostedsadresse {
      vegadresse { adressenavn husnummer husbokstav postnummer }
      utenlandskAdresse { adressenavnNummer postkode bySted landkode }
    }
  }
}`

// PDL looks up persons in the person register GraphQL API.
type PDL struct {
	url    string
	client *http.Client
}

// NewPDL creates a person register client posting to url.
func NewPDL(url string, client *http.Client) (*PDL, error) {
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	return &PDL{url: url, client: client}, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type pdlAddress struct {
	Vegadresse *struct {
		Adressenavn string  `json:"adressenavn"`
		Husnummer   *string `json:"husnummer"`
		Husbokstav  *string `json:"husbokstav"`
		Postnummer  *string `json:"postnummer"`
	} `json:"vegadresse"`
	UtenlandskAdresse *struct {
		AdressenavnNummer *string `json:"adressenavnNummer"`
		Postkode          *string `json:"postkode"`
		BySted            *string `json:"bySted"`
		Landkode          string  `json:"landkode"`
	} `json:"utenlandskAdresse"`
}

type pdlResponse struct {
	Data struct {
		HentPerson *struct {
			Navn []struct {
				Fornavn    string  `json:"fornavn"`
				Mellomnavn *string `json:"mellomnavn"`
				Etternavn  string  `json:"etternavn"`
			} `json:"navn"`
			Bostedsadresse []pdlAddress `json:"bostedsadresse"`
		} `json:"hentPerson"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// Person fetches the person identified by ident.
func (p *PDL) Person(ctx context.Context, ident string) (Person, error) {
	payload, err := json.Marshal(graphQLRequest{
		Query:     hentPersonQuery,
		Variables: map[string]any{"ident": ident},
	})
	if err != nil {
		return Person{}, fmt.Errorf("marshal person query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return Person{}, fmt.Errorf("lookup person: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Tema", "DAG")
	req.Header.Set("Behandlingsnummer", "B286")

	body, err := httpclient.Do(p.client, req, "lookup person")
	if err != nil {
		return Person{}, err
	}

	var resp pdlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Person{}, fmt.Errorf("decode person: %w", err)
	}
	if len(resp.Errors) > 0 {
		return Person{}, fmt.Errorf("lookup person: %s", resp.Errors[0].Message)
	}
	hp := resp.Data.HentPerson
	if hp == nil {
		return Person{}, fmt.Errorf("lookup person: empty result")
	}

	var person Person
	if len(hp.Navn) > 0 {
		n := hp.Navn[0]
		person.Name = joinNonEmpty(" ", n.Fornavn, deref(n.Mellomnavn), n.Etternavn)
	}
	for _, a := range hp.Bostedsadresse {
		if addr := formatAddress(a); addr != "" {
			person.Address = addr
			break
		}
	}
	return person, nil
}

func formatAddress(a pdlAddress) string {
	switch {
	case a.Vegadresse != nil:
		v := a.Vegadresse
		street := joinNonEmpty(" ", v.Adressenavn, deref(v.Husnummer)+deref(v.Husbokstav))
		return joinNonEmpty(", ", street, deref(v.Postnummer))
	case a.UtenlandskAdresse != nil:
		u := a.UtenlandskAdresse
		return joinNonEmpty(", ", deref(u.AdressenavnNummer), joinNonEmpty(" ", deref(u.Postkode), deref(u.BySted)), u.Landkode)
	default:
		return ""
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
