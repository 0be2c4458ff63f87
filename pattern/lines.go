package pattern

import "strings"

// PrepareLines 将原始文本拆成待栅格化的行：
// 去掉每行首尾空白，丢弃空行（不保留空白针脚），再按原顺序保留至多 maxLines 行。
// maxLines 为 0 时不保留任何行，负数表示不限制。
func PrepareLines(text string, maxLines int) []string {
	text = strings.TrimSpace(text)
	if text == "" || maxLines == 0 {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if maxLines > 0 && len(lines) == maxLines {
			break
		}
	}
	return lines
}
