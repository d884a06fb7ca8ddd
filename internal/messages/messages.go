package messages

import (
	"fmt"
	"strings"
	"time"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

func expiryDate(t time.Time) string {
	return t.UTC().Format("02.01.2006")
}

func SubscriptionNotFound(lang Lang) string {
	if lang == RU {
		return "🚫 <b>Подписка не найдена</b>\nСервер ещё не зарегистрирован. Добавьте бота заново или обратитесь к владельцу."
	}
	return "🚫 <b>No subscription found</b>\nThis server is not registered yet. Re-add the bot or contact the owner."
}

func SubscriptionExpired(lang Lang) string {
	if lang == RU {
		return "⌛ <b>Подписка истекла</b>\nОбратитесь к владельцу бота для продления."
	}
	return "⌛ <b>Subscription expired</b>\nContact the bot owner to extend it."
}

func PermissionDenied(lang Lang) string {
	if lang == RU {
		return "🔒 <b>Недостаточно прав</b>\nУ вас нет доступа к этой команде."
	}
	return "🔒 <b>Not authorized</b>\nYou do not have access to this command."
}

func InvalidParameters(lang Lang, usage string) string {
	if lang == RU {
		return fmt.Sprintf("⚠️ <b>Неверные параметры</b>\nИспользование: <code>%s</code>", Escape(usage))
	}
	return fmt.Sprintf("⚠️ <b>Invalid parameters</b>\nUsage: <code>%s</code>", Escape(usage))
}

func ErrorDefault(lang Lang) string {
	if lang == RU {
		return "🚫 <b>Ошибка сервиса</b>\nПопробуйте ещё раз."
	}
	return "🚫 <b>Service error</b>\nPlease try again."
}

func NotImplemented(lang Lang, command string) string {
	if lang == RU {
		return fmt.Sprintf("🚧 <b>Команда /%s пока не реализована</b>", Escape(command))
	}
	return fmt.Sprintf("🚧 <b>Command /%s is not implemented yet</b>", Escape(command))
}

func UnknownCommand(lang Lang) string {
	if lang == RU {
		return "❓ <b>Команда не найдена</b>\nСписок команд: /help"
	}
	return "❓ <b>Unknown command</b>\nSee /help for the command list."
}

func ExtendDone(lang Lang, days int, expiresAt time.Time, remaining int) string {
	if lang == RU {
		return fmt.Sprintf("✅ <b>Подписка продлена на %d дн.</b>\n📅 Действует до: <b>%s</b> (осталось %d дн.)",
			days, expiryDate(expiresAt), remaining)
	}
	return fmt.Sprintf("✅ <b>Subscription extended by %d day(s)</b>\n📅 Valid until: <b>%s</b> (%d day(s) left)",
		days, expiryDate(expiresAt), remaining)
}

func SubscriptionStatus(lang Lang, expiresAt time.Time, remaining int) string {
	if lang == RU {
		return fmt.Sprintf("📋 <b>Подписка активна</b>\n📅 Действует до: <b>%s</b> (осталось %d дн.)",
			expiryDate(expiresAt), remaining)
	}
	return fmt.Sprintf("📋 <b>Subscription is active</b>\n📅 Valid until: <b>%s</b> (%d day(s) left)",
		expiryDate(expiresAt), remaining)
}

func GrantDone(lang Lang, userID int64, canAdd, canRemove bool) string {
	flags := permissionFlags(lang, canAdd, canRemove)
	if lang == RU {
		return fmt.Sprintf("✅ <b>Доступ выдан</b>\n👤 Пользователь: <code>%d</code>\n%s", userID, flags)
	}
	return fmt.Sprintf("✅ <b>Access granted</b>\n👤 User: <code>%d</code>\n%s", userID, flags)
}

func permissionFlags(lang Lang, canAdd, canRemove bool) string {
	yes, no := "✔️", "✖️"
	mark := func(b bool) string {
		if b {
			return yes
		}
		return no
	}
	if lang == RU {
		return fmt.Sprintf("%s добавление времени\n%s удаление времени", mark(canAdd), mark(canRemove))
	}
	return fmt.Sprintf("%s add time\n%s remove time", mark(canAdd), mark(canRemove))
}

func RevokeDone(lang Lang, userID int64) string {
	if lang == RU {
		return fmt.Sprintf("✅ <b>Доступ отозван</b>\n👤 Пользователь: <code>%d</code>", userID)
	}
	return fmt.Sprintf("✅ <b>Access revoked</b>\n👤 User: <code>%d</code>", userID)
}

func GuildWelcome(lang Lang) string {
	if lang == RU {
		return "👋 <b>Бот добавлен</b>\nПодписка создана и ждёт активации владельцем. Статус: /checksubscription"
	}
	return "👋 <b>Bot added</b>\nA subscription was created and awaits activation by the owner. Status: /checksubscription"
}

func GroupOnly(lang Lang) string {
	if lang == RU {
		return "ℹ️ Команды работают только в группах. Добавьте бота в группу сервера."
	}
	return "ℹ️ Commands only work in groups. Add the bot to your server's group."
}

func Help(lang Lang) string {
	if lang == RU {
		return "ℹ️ <b>Команды</b>\n" +
			"/checksubscription — статус подписки\n" +
			"/extendtime &lt;days&gt; — продлить подписку (владелец)\n" +
			"/grantaccess &lt;user&gt; &lt;addtime&gt; &lt;removetime&gt; — выдать доступ (владелец)\n" +
			"/revokeaccess &lt;user&gt; — отозвать доступ (владелец)\n" +
			"/addtime &lt;steam_hex&gt; &lt;play_time&gt; — добавить время\n" +
			"/listtimes [page] — список времени\n" +
			"/resetplaytime &lt;user&gt; — сбросить время игрока\n" +
			"/resetallplaytimes — сбросить всё время (владелец)\n" +
			"/removeplaytime &lt;steam_hex&gt; — удалить запись"
	}
	return "ℹ️ <b>Commands</b>\n" +
		"/checksubscription — subscription status\n" +
		"/extendtime &lt;days&gt; — extend the subscription (owner)\n" +
		"/grantaccess &lt;user&gt; &lt;addtime&gt; &lt;removetime&gt; — grant access (owner)\n" +
		"/revokeaccess &lt;user&gt; — revoke access (owner)\n" +
		"/addtime &lt;steam_hex&gt; &lt;play_time&gt; — add play time\n" +
		"/listtimes [page] — list play times\n" +
		"/resetplaytime &lt;user&gt; — reset a player's time\n" +
		"/resetallplaytimes — reset all play times (owner)\n" +
		"/removeplaytime &lt;steam_hex&gt; — remove an entry"
}
