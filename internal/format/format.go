// Pure formatting of API records into ordered content blocks. No I/O here;
// everything is deterministic so the block layout can be asserted in tests.
package format

import (
	"fmt"
	"strings"

	"github.com/cloudcranesss/javbus-bot/internal/models"
)

// Fixed layout policy. These cutoffs are part of the reply format, not
// configuration.
const (
	maxMovieBlocks = 5
	maxTitleRunes  = 20
	maxCastNames   = 3
	maxMagnets     = 5
)

// upstreamImageHost is the image host prefix replaced by the configured
// proxy base URL.
const upstreamImageHost = "https://www.javbus.com"

// RewriteImageURL replaces the upstream image host prefix with the proxy
// base URL. URLs without the upstream prefix pass through unchanged, so the
// rewrite is idempotent. An empty proxy base disables rewriting.
func RewriteImageURL(imageURL, proxyBase string) string {
	if proxyBase == "" {
		return imageURL
	}
	return strings.Replace(imageURL, upstreamImageHost, proxyBase, 1)
}

// MovieList renders search results: one block per movie, capped at
// maxMovieBlocks, plus a trailing summary block with the total match count.
func MovieList(result *models.SearchResult, proxyBase string) []models.ContentBlock {
	movies := result.Movies
	if len(movies) > maxMovieBlocks {
		movies = movies[:maxMovieBlocks]
	}

	blocks := make([]models.ContentBlock, 0, len(movies)+1)
	for _, m := range movies {
		blocks = append(blocks, models.ContentBlock{
			Text: fmt.Sprintf("番号: %s\n标题: %s\n日期: %s\n标签: %s",
				m.ID, truncateTitle(m.Title), m.Date, strings.Join(m.Tags, ", ")),
			ImageURL: RewriteImageURL(m.CoverURL, proxyBase),
		})
	}
	blocks = append(blocks, models.ContentBlock{
		Text: fmt.Sprintf("找到 %d 个结果", result.Total()),
	})
	return blocks
}

// Star renders one actor record as a single block with a fixed field order.
func Star(star *models.StarDetail, proxyBase string) models.ContentBlock {
	return models.ContentBlock{
		Text: fmt.Sprintf("姓名: %s\n生日: %s\n年龄: %s\n身高: %s\n三维: %s - %s - %s",
			star.Name, star.Birthday, star.Age, star.Height,
			star.Bust, star.Waistline, star.Hipline),
		ImageURL: RewriteImageURL(star.AvatarURL, proxyBase),
	}
}

// MovieDetail renders one movie's full record plus its magnet links as a
// single combined block.
func MovieDetail(detail *models.MovieDetail, magnets []models.Magnet, proxyBase string) models.ContentBlock {
	lines := []string{
		"【影片详情】",
		"番号：" + orNA(detail.ID),
		"标题：" + orNA(detail.Title),
		"日期：" + orNA(detail.Date),
		"时长：" + duration(detail.VideoLength),
		"演员：" + castNames(detail.Stars),
		"导演：" + director(detail.Director),
	}

	if len(magnets) > maxMagnets {
		magnets = magnets[:maxMagnets]
	}
	if len(magnets) > 0 {
		lines = append(lines, "【磁力链接】")
		for i, m := range magnets {
			hd := ""
			if m.IsHD {
				hd = " 高清"
			}
			sub := "无"
			if m.HasSubtitle {
				sub = "有"
			}
			lines = append(lines, fmt.Sprintf("%d. %s %s\n%s\n%s 字幕：%s\n%s",
				i+1, m.Title, m.Size, m.ShareDate, hd, sub, m.Link))
		}
	} else {
		lines = append(lines, "【未找到磁力链接】")
	}

	return models.ContentBlock{
		Text:     strings.Join(lines, "\n"),
		ImageURL: RewriteImageURL(detail.CoverURL, proxyBase),
	}
}

// truncateTitle caps a title at maxTitleRunes runes, appending an ellipsis.
// Titles are mostly CJK text, so the cut is by rune, not byte.
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}
	return string(runes[:maxTitleRunes]) + "..."
}

func duration(d models.Duration) string {
	if d.IsInt {
		return fmt.Sprintf("%d小时%d分钟", d.Minutes/60, d.Minutes%60)
	}
	if d.Raw == "" {
		return "未知"
	}
	return d.Raw
}

func castNames(stars []models.CastMember) string {
	if len(stars) == 0 {
		return "暂无演员信息"
	}
	shown := stars
	if len(shown) > maxCastNames {
		shown = shown[:maxCastNames]
	}
	names := make([]string, len(shown))
	for i, s := range shown {
		names[i] = s.Name
	}
	joined := strings.Join(names, "、")
	if len(stars) > maxCastNames {
		joined += fmt.Sprintf(" 等%d人", len(stars))
	}
	return joined
}

func director(d models.Director) string {
	if d.Name == "" {
		return "未知"
	}
	return d.Name
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
