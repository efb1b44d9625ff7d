package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/christopherklint97/mealr/internal/store"
)

// maxPageText bounds how much page text is sent to the model.
const maxPageText = 12000

// ParseRecipeURL fetches a web page and structures the recipe on it. A nil
// client uses a 15 second timeout.
func ParseRecipeURL(ctx context.Context, p Completer, client *http.Client, url string) (*store.Recipe, error) {
	text, err := FetchPageText(ctx, client, url)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("fetching %s: page has no text", url)
	}
	r, err := requestRecipe(ctx, p, "parsed_recipe", "Extract the recipe from the following web page content.\n\nPage content:\n"+text)
	if err != nil {
		return nil, err
	}
	r.SourceURL = url
	return r, nil
}

// FetchPageText downloads url and returns its visible text with scripts,
// styles and page chrome removed and whitespace collapsed.
func FetchPageText(ctx context.Context, client *http.Client, url string) (string, error) {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}
	return pageText(resp.Body)
}

func pageText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}
	doc.Find("script, style, noscript, template, nav, footer, iframe").Remove()
	// Separate adjacent elements so their text does not run together.
	doc.Find("body *").AfterHtml(" ")

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(text) > maxPageText {
		text = strings.ToValidUTF8(text[:maxPageText], "") + "..."
	}
	return text, nil
}
