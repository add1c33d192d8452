package shopid

import "strings"

// Shopify 店铺域名后缀
const myshopifySuffix = ".myshopify.com"

// NormalizeShop 规范化店铺标识为完整域名（存储主键形式）
// "acme" -> "acme.myshopify.com"
// "acme.myshopify.com" -> "acme.myshopify.com"
func NormalizeShop(shop string) string {
	shop = strings.ToLower(strings.TrimSpace(shop))
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	shop = strings.TrimSuffix(shop, "/")
	if shop == "" {
		return ""
	}
	if strings.HasSuffix(shop, myshopifySuffix) {
		return shop
	}
	return shop + myshopifySuffix
}

// ShopCandidates 返回店铺标识的所有等价形式
// 历史数据中两种写法都存在，查询时需要同时探测
func ShopCandidates(shop string) []string {
	full := NormalizeShop(shop)
	if full == "" {
		return nil
	}
	handle := strings.TrimSuffix(full, myshopifySuffix)
	if handle == full {
		return []string{full}
	}
	return []string{handle, full}
}

// NormalizeProductID 提取商品/变体的纯数字 ID
// "gid://shopify/Product/123456" -> "123456"
// "123456" -> "123456"
// 无法识别的格式原样返回（不做纠错）
func NormalizeProductID(id string) string {
	id = strings.TrimSpace(id)
	if !strings.HasPrefix(id, "gid://") {
		return id
	}
	idx := strings.LastIndex(id, "/")
	if idx < 0 || idx == len(id)-1 {
		return id
	}
	return id[idx+1:]
}

// ProductGID 将纯数字 ID 还原为 Admin API 的 GID 形式
func ProductGID(numericID string) string {
	if strings.HasPrefix(numericID, "gid://") {
		return numericID
	}
	return "gid://shopify/Product/" + numericID
}

// IsPlatformHost 判断 host 是否属于 Shopify 平台自身域名
// 平台域名不能作为应用自身 URL 的候选
func IsPlatformHost(host string) bool {
	host = strings.ToLower(host)
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	return host == "shopify.com" ||
		host == "admin.shopify.com" ||
		strings.HasSuffix(host, ".shopify.com") ||
		strings.HasSuffix(host, myshopifySuffix)
}
